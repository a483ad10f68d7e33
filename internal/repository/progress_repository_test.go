package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUpsertCreatesFirstAttempt(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	progress, err := repo.Upsert(1, 10, 80, 5, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Attempts)
	assert.Equal(t, 80, progress.Score)
	assert.Equal(t, 5, progress.TotalQuestions)
	assert.Equal(t, 4, progress.CorrectAnswers)
	require.NotNil(t, progress.CompletedAt)
}

func TestUpsertOverwritesAndCountsRetries(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	_, err := repo.Upsert(1, 10, 40, 5, 2)
	require.NoError(t, err)

	progress, err := repo.Upsert(1, 10, 100, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Attempts)
	assert.Equal(t, 100, progress.Score)

	// 只有一条记录
	found, err := repo.FindByUserAndChapter(1, 10)
	require.NoError(t, err)
	assert.Equal(t, progress.ID, found.ID)
}

func TestUpsertIsolatedPerUserAndChapter(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	_, err := repo.Upsert(1, 10, 80, 5, 4)
	require.NoError(t, err)
	_, err = repo.Upsert(2, 10, 20, 5, 1)
	require.NoError(t, err)
	_, err = repo.Upsert(1, 11, 60, 5, 3)
	require.NoError(t, err)

	first, err := repo.FindByUserAndChapter(1, 10)
	require.NoError(t, err)
	assert.Equal(t, 80, first.Score)
	assert.Equal(t, 1, first.Attempts)

	other, err := repo.FindByUserAndChapter(2, 10)
	require.NoError(t, err)
	assert.Equal(t, 20, other.Score)
}

func TestFindByUserAndChapterMissing(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	_, err := repo.FindByUserAndChapter(1, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
