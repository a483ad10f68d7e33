package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"course_gen_backend/internal/util"
	"course_gen_backend/pkg/logger"
	"course_gen_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// 章节内容低于该长度不出题，硬拒绝不回退
	minQuizSourceLen = 100

	// 每个模块最多挂的视频数
	maxVideosPerModule = 5
)

// CourseDraft 生成管线的产物，也是结构化生成接口的响应体
type CourseDraft struct {
	CourseTitle string        `json:"course_title"`
	Overview    string        `json:"overview"`
	Modules     []ModuleDraft `json:"modules"`
}

type ModuleDraft struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Objectives  []string    `json:"objectives"`
	Content     string      `json:"content"`
	Videos      []string    `json:"videos,omitempty"`
	Quiz        []QuizDraft `json:"quiz,omitempty"`
}

// QuizDraft 单道测验题
type QuizDraft struct {
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Type        string   `json:"type"`
}

// CourseGenService 组织 提示词 -> AI -> 解析 -> 校验 -> 兜底 的生成链路
type CourseGenService struct {
	ai          *AIService
	videoSearch *VideoSearchService

	// 连续搜视频之间的间隔，测试置零
	searchPause time.Duration
}

func NewCourseGenService(ai *AIService, videoSearch *VideoSearchService) *CourseGenService {
	return &CourseGenService{
		ai:          ai,
		videoSearch: videoSearch,
		searchPause: 200 * time.Millisecond,
	}
}

const courseSystemPrompt = "You are an experienced curriculum designer. " +
	"Respond with a single JSON object only, no markdown, no commentary."

func buildCoursePrompt(topic, category, difficulty string, duration, moduleCount int, wantQuiz bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design a %s-level course about %q in the %s category, "+
		"spanning roughly %d hours across exactly %d modules.\n\n",
		difficulty, topic, category, duration, moduleCount)
	b.WriteString("Return JSON with this exact shape:\n")
	b.WriteString(`{
  "course_title": "string",
  "overview": "string, 2-3 sentences",
  "modules": [
    {
      "title": "string",
      "description": "string, 1-2 sentences",
      "objectives": ["3 to 5 learning objectives"],
      "content": "string, 300-600 words of lesson text"`)
	if wantQuiz {
		b.WriteString(`,
      "quiz": [
        {
          "question": "string",
          "options": ["only for mcq, 4 options"],
          "answer": "string, must match an option for mcq",
          "explanation": "string, one sentence",
          "type": "mcq | true_false | fill_blank | code_output"
        }
      ]`)
	}
	b.WriteString(`
    }
  ]
}`)
	fmt.Fprintf(&b, "\n\nThe modules array must contain exactly %d entries.", moduleCount)
	if wantQuiz {
		b.WriteString(" Each module must carry 3 quiz questions.")
	}
	return b.String()
}

// Generate 产出一份课程草稿。AI 不可用、返回损坏或校验不通过时
// 一律回退到本地模板课程，这条链路对调用方永不失败。
func (s *CourseGenService) Generate(topic, category, difficulty string, duration, moduleCount int, wantQuiz bool) *CourseDraft {
	if moduleCount < 1 {
		moduleCount = 1
	}

	draft, err := s.generateWithAI(topic, category, difficulty, duration, moduleCount, wantQuiz)
	if err != nil {
		logger.Log.Warn("course generation fell back to template",
			zap.String("topic", topic),
			zap.Error(err))
		monitoring.GenerationCounter.WithLabelValues("fallback_applied").Inc()
		return s.fallbackDraft(topic, category, difficulty, moduleCount)
	}

	monitoring.GenerationCounter.WithLabelValues("validated").Inc()
	return draft
}

func (s *CourseGenService) generateWithAI(topic, category, difficulty string, duration, moduleCount int, wantQuiz bool) (*CourseDraft, error) {
	content, err := s.ai.Chat(courseSystemPrompt, buildCoursePrompt(topic, category, difficulty, duration, moduleCount, wantQuiz))
	if err != nil {
		return nil, err
	}

	raw := util.ExtractJSONObject(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in AI response")
	}

	var draft CourseDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("malformed course JSON: %w", err)
	}

	if err := validateDraft(&draft, moduleCount, wantQuiz); err != nil {
		return nil, err
	}
	return &draft, nil
}

// validateDraft 结构校验，任意一项不满足整份草稿作废
func validateDraft(draft *CourseDraft, moduleCount int, wantQuiz bool) error {
	if strings.TrimSpace(draft.CourseTitle) == "" {
		return fmt.Errorf("empty course title")
	}
	if len(draft.Modules) != moduleCount {
		return fmt.Errorf("expected %d modules, got %d", moduleCount, len(draft.Modules))
	}
	for i, m := range draft.Modules {
		if strings.TrimSpace(m.Title) == "" {
			return fmt.Errorf("module %d has empty title", i+1)
		}
		if strings.TrimSpace(m.Description) == "" {
			return fmt.Errorf("module %d has empty description", i+1)
		}
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("module %d has empty content", i+1)
		}
		if len(m.Objectives) == 0 {
			return fmt.Errorf("module %d has no objectives", i+1)
		}
		if wantQuiz {
			if err := validateQuizzes(m.Quiz); err != nil {
				return fmt.Errorf("module %d: %w", i+1, err)
			}
		}
	}
	return nil
}

var titleCaser = cases.Title(language.English)

// fallbackDraft 纯本地模板，确定性产出，不碰任何外部服务
func (s *CourseGenService) fallbackDraft(topic, category, difficulty string, moduleCount int) *CourseDraft {
	draft := &CourseDraft{
		CourseTitle: fmt.Sprintf("%s: A %s Guide", titleCaser.String(topic), titleCaser.String(difficulty)),
		Overview: fmt.Sprintf("A structured introduction to %s in the %s category. "+
			"Each module builds on the previous one, moving from fundamentals to applied practice.",
			topic, category),
	}

	stages := []string{
		"Getting Started with",
		"Core Concepts of",
		"Working with",
		"Practical Techniques for",
		"Advanced Topics in",
		"Real-World Applications of",
		"Common Pitfalls in",
		"Mastering",
	}

	for i := 0; i < moduleCount; i++ {
		stage := stages[i%len(stages)]
		title := fmt.Sprintf("%s %s", stage, titleCaser.String(topic))
		draft.Modules = append(draft.Modules, ModuleDraft{
			Title:       title,
			Description: fmt.Sprintf("Module %d of the %s course, covering %s.", i+1, topic, strings.ToLower(title)),
			Objectives: []string{
				fmt.Sprintf("Understand the key ideas behind %s", strings.ToLower(title)),
				fmt.Sprintf("Apply %s concepts in guided exercises", topic),
				"Self-assess readiness for the next module",
			},
			Content: fmt.Sprintf("This module introduces %s. Work through the linked material at your own pace, "+
				"take notes on unfamiliar terms, and revisit earlier modules whenever a concept feels shaky. "+
				"The exercises at the end are designed for the %s level and should take about an hour.",
				strings.ToLower(title), difficulty),
		})
	}
	return draft
}

// EnrichVideos 给每个模块搜配套视频。单个模块搜索失败只记日志跳过，
// 不拖垮整份草稿。模块之间留间隔，避免打满上游配额。
func (s *CourseGenService) EnrichVideos(draft *CourseDraft, topic, difficulty string) {
	if !s.videoSearch.Enabled() {
		return
	}

	for i := range draft.Modules {
		if i > 0 && s.searchPause > 0 {
			time.Sleep(s.searchPause)
		}

		query := fmt.Sprintf("%s %s tutorial %s", topic, draft.Modules[i].Title, difficulty)
		ids, err := s.videoSearch.SearchVideos(query, maxVideosPerModule)
		if err != nil {
			logger.Log.Warn("module video search failed",
				zap.Int("module", i+1),
				zap.Error(err))
			continue
		}

		urls := make([]string, 0, len(ids))
		for _, id := range ids {
			urls = append(urls, util.CanonicalWatchURL(id))
		}
		draft.Modules[i].Videos = urls
	}
}

const quizSystemPrompt = "You are a strict examiner writing quiz questions. " +
	"Respond with a single JSON object only, no markdown, no commentary."

func buildQuizPrompt(chapterTitle, content string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write exactly %d quiz questions for the chapter %q based only on the material below.\n\n", count, chapterTitle)
	b.WriteString("Return JSON with this exact shape:\n")
	b.WriteString(`{
  "questions": [
    {
      "question": "string",
      "options": ["only for mcq, 4 options"],
      "answer": "string, must match an option for mcq",
      "explanation": "string, one sentence",
      "type": "mcq | true_false | fill_blank | code_output"
    }
  ]
}`)
	b.WriteString("\n\nMaterial:\n")
	b.WriteString(content)
	return b.String()
}

type quizEnvelope struct {
	Questions []QuizDraft `json:"questions"`
}

// GenerateQuiz 测验生成没有兜底：素材太短直接拒绝，AI 失败原样报错。
// 宁可没有测验，也不给学员编造的题目。
func (s *CourseGenService) GenerateQuiz(chapterTitle, content string, count int) ([]QuizDraft, error) {
	if len(strings.TrimSpace(content)) < minQuizSourceLen {
		monitoring.GenerationCounter.WithLabelValues("rejected").Inc()
		return nil, util.ErrQuizSourceShort
	}
	if count < 1 {
		count = 1
	}

	raw, err := s.ai.Chat(quizSystemPrompt, buildQuizPrompt(chapterTitle, content, count))
	if err != nil {
		return nil, err
	}

	jsonStr := util.ExtractJSONObject(raw)
	if jsonStr == "" {
		monitoring.GenerationCounter.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("no JSON object in quiz response")
	}

	var envelope quizEnvelope
	if err := json.Unmarshal([]byte(jsonStr), &envelope); err != nil {
		monitoring.GenerationCounter.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("malformed quiz JSON: %w", err)
	}

	if err := validateQuizzes(envelope.Questions); err != nil {
		monitoring.GenerationCounter.WithLabelValues("rejected").Inc()
		return nil, err
	}

	monitoring.GenerationCounter.WithLabelValues("validated").Inc()
	return envelope.Questions, nil
}

func validateQuizzes(questions []QuizDraft) error {
	if len(questions) == 0 {
		return fmt.Errorf("quiz response contained no questions")
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			return fmt.Errorf("question %d missing question or answer", i+1)
		}
		switch q.Type {
		case "mcq":
			if len(q.Options) < 2 {
				return fmt.Errorf("question %d is mcq but has %d options", i+1, len(q.Options))
			}
			found := false
			for _, opt := range q.Options {
				if opt == q.Answer {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("question %d answer not among options", i+1)
			}
		case "true_false", "fill_blank", "code_output":
		default:
			return fmt.Errorf("question %d has unknown type %q", i+1, q.Type)
		}
	}
	return nil
}
