package diagnosis

import (
	"context"
	"strings"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/llm"
)

// Service coordinates error diagnosis using rule-based classifiers and
// optional LLM-based misconception identification.
type Service struct {
	classifiers []Classifier
	diagnoser   *Diagnoser
	pending     chan diagnosisJob
}

type diagnosisJob struct {
	ctx context.Context
	req *DiagnosisRequest
	cb  func(*DiagnosisResult)
}

// NewService creates a diagnosis service. If provider is nil, only rule-based
// classification is available.
func NewService(provider llm.Provider) *Service {
	s := &Service{
		classifiers: DefaultClassifiers(),
		pending:     make(chan diagnosisJob, 32),
	}
	if provider != nil {
		s.diagnoser = NewDiagnoser(provider, DefaultDiagnoserConfig())
		go s.processLoop()
	}
	return s
}

// Diagnose classifies a wrong answer. Rule-based classification is synchronous.
// If rules are inconclusive and an LLM is available, async LLM diagnosis is
// dispatched and the callback fires when the result is ready.
// Returns the synchronous result immediately.
func (s *Service) Diagnose(ctx context.Context, input *ClassifyInput, cb func(*DiagnosisResult)) *DiagnosisResult {
	// Phase 1: Rule-based (synchronous).
	if r := RunClassifiers(s.classifiers, input); r != nil {
		return r
	}

	// Phase 2: LLM (async).
	if s.diagnoser != nil {
		s.dispatchLLM(ctx, input, cb)
	}

	// Return unclassified immediately; LLM result arrives via callback.
	return &DiagnosisResult{
		Category:       CategoryUnclassified,
		Confidence:     0,
		ClassifierName: "none",
	}
}

func (s *Service) dispatchLLM(ctx context.Context, input *ClassifyInput, cb func(*DiagnosisResult)) {
	p := input.Problem
	if p == nil {
		return
	}
	candidates := MisconceptionsByTopic(p.LessonID)
	if len(candidates) == 0 {
		return
	}

	lessonID := strings.TrimSuffix(p.LessonID, content.WorkbookSuffix)
	topic := lessonID
	if l, ok := content.LessonByID(lessonID); ok {
		topic = l.Title.Get(content.EN)
	}

	req := &DiagnosisRequest{
		LessonID:      lessonID,
		Topic:         topic,
		QuestionText:  p.Question.Get(content.EN),
		CorrectAnswer: p.CorrectAnswerText(content.EN),
		LearnerAnswer: input.LearnerAnswer,
		ProblemType:   string(p.Type()),
		Candidates:    candidates,
	}

	select {
	case s.pending <- diagnosisJob{ctx: ctx, req: req, cb: cb}:
	default:
		// Channel full: drop diagnosis silently. Not critical.
	}
}

func (s *Service) processLoop() {
	for job := range s.pending {
		result, err := s.diagnoser.Diagnose(job.ctx, job.req)
		if err != nil || result == nil {
			continue
		}
		if job.cb != nil {
			job.cb(result)
		}
	}
}

// Close shuts down the async processing loop.
func (s *Service) Close() {
	close(s.pending)
}
