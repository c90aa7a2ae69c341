package services

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/vytor/csatutor/internal/errors"
	"github.com/vytor/csatutor/internal/extract"
	"github.com/vytor/csatutor/internal/llm"
	"github.com/vytor/csatutor/internal/logger"
	"github.com/vytor/csatutor/internal/metrics"
	"github.com/vytor/csatutor/internal/models"
	"github.com/vytor/csatutor/internal/quiz"
	"github.com/vytor/csatutor/internal/repository"
	"github.com/vytor/csatutor/internal/session"
)

const (
	maxTopicLen   = 200
	maxAnswerLen  = 4000
	maxMessageLen = 4000

	ruleMistakeType = "integer arithmetic"
)

// QuestionRequest selects what GenerateQuestion asks the model for.
type QuestionRequest struct {
	Unit       string
	Topic      string
	Difficulty string
}

// TutorService drives question generation, grading and chat. Every method
// takes the caller's session and returns the updated copy.
type TutorService interface {
	Units() []string
	GenerateQuestion(ctx context.Context, sess session.Session, req QuestionRequest) (session.Session, string, error)
	Grade(ctx context.Context, question, answer, unitHint, topic string) (models.GradingResult, error)
	SubmitAnswer(ctx context.Context, sess session.Session, answer string) (session.Session, models.Submission, error)
	Chat(ctx context.Context, sess session.Session, message string) (session.Session, string, error)
}

// TutorOptions holds tutor behaviour switches.
type TutorOptions struct {
	// RecordAllAttempts stores correct answers in the wrongbook too.
	RecordAllAttempts bool
	Metrics           *metrics.Metrics
}

type tutorService struct {
	llm       llm.Client
	wrongbook repository.WrongbookRepository
	opts      TutorOptions
}

// NewTutorService creates a new TutorService
func NewTutorService(client llm.Client, wrongbook repository.WrongbookRepository, opts TutorOptions) TutorService {
	return &tutorService{llm: client, wrongbook: wrongbook, opts: opts}
}

func (s *tutorService) Units() []string {
	return slices.Clone(models.Units)
}

func (s *tutorService) GenerateQuestion(ctx context.Context, sess session.Session, req QuestionRequest) (session.Session, string, error) {
	log := logger.FromContext(ctx).WithPrefix("tutor")

	req.Unit = strings.TrimSpace(req.Unit)
	req.Topic = strings.TrimSpace(req.Topic)
	req.Difficulty = strings.ToLower(strings.TrimSpace(req.Difficulty))
	if req.Difficulty == "" {
		req.Difficulty = "easy"
	}
	if !slices.Contains(models.Units, req.Unit) {
		return sess, "", errors.NewValidationError("unit", "must be one of the listed units")
	}
	if !slices.Contains(models.Difficulties, req.Difficulty) {
		return sess, "", errors.NewValidationError("difficulty", "must be easy, medium or hard")
	}
	if utf8.RuneCountInString(req.Topic) > maxTopicLen {
		return sess, "", errors.NewValidationError("topic", "is too long")
	}

	log.Debug("generating question: unit=%s, topic=%s, difficulty=%s", req.Unit, req.Topic, req.Difficulty)
	raw, err := s.llm.Complete(ctx, questionMessages(req.Unit, req.Topic, req.Difficulty), questionTemperature)
	if err != nil {
		log.Error("question generation failed: %v", err)
		return sess, "", errors.NewUpstreamError("could not generate a question, please try again", err)
	}

	question, leaked := cutLeak(raw)
	if leaked {
		log.Warn("generated question contained its answer, trimmed to %d bytes", len(question))
	}
	if question == "" {
		return sess, "", errors.NewUpstreamError("the generated question was unusable, please generate a new one", nil)
	}

	sess.Unit = req.Unit
	sess.Topic = req.Topic
	sess.Difficulty = req.Difficulty
	sess.CurrentQuestion = question
	log.Info("question generated: unit=%s, %d bytes", req.Unit, len(question))
	return sess, question, nil
}

// Grade combines the arithmetic verifier with the model. When the verifier
// resolves the question its verdict is final and the model only adds prose;
// otherwise the model's reply decides.
func (s *tutorService) Grade(ctx context.Context, question, answer, unitHint, topic string) (models.GradingResult, error) {
	log := logger.FromContext(ctx).WithPrefix("tutor")

	verdict, ruled := quiz.Verify(question, answer)
	if ruled {
		log.Debug("question resolved by rule: value=%d, correct_answer=%s, correct=%t",
			verdict.Trace.Value, verdict.CorrectAnswer, verdict.Correct)
	}

	raw, err := s.llm.Complete(ctx, gradingMessages(question, answer, unitHint), gradingTemperature)
	if err != nil {
		if ruled {
			log.Warn("grading model unavailable, using rule verdict: %v", err)
			res := ruleResult(verdict, unitHint, topic)
			s.opts.Metrics.ObserveGrading(string(res.Source), res.IsCorrect.String())
			return res, nil
		}
		log.Error("grading failed: %v", err)
		return models.GradingResult{}, errors.NewUpstreamError("could not grade the answer, please try again", err)
	}

	res := extract.Grading(raw, unitHint)
	if res.Topic == "" {
		res.Topic = topic
	}
	if ruled {
		res = reconcile(res, verdict)
	}

	log.Info("answer graded: source=%s, result=%s, mistake_type=%s", res.Source, res.IsCorrect, res.MistakeType)
	s.opts.Metrics.ObserveGrading(string(res.Source), res.IsCorrect.String())
	return res, nil
}

// ruleResult is the grade when only the verifier is available.
func ruleResult(v quiz.Verdict, unit, topic string) models.GradingResult {
	res := models.GradingResult{
		IsCorrect:     models.CorrectnessOf(v.Correct),
		CorrectAnswer: v.CorrectAnswer,
		Explanation:   v.Trace.Explain(),
		Unit:          unit,
		Topic:         topic,
		Drills:        []models.Drill{},
		Source:        models.GradingSourceRule,
	}
	if !v.Correct {
		res.MistakeType = ruleMistakeType
	}
	return res
}

// reconcile overrides the model with the verifier. Model prose that disagrees
// with the computed answer is replaced, since it explains a wrong result.
func reconcile(res models.GradingResult, v quiz.Verdict) models.GradingResult {
	contradicts := res.IsCorrect != models.CorrectnessUnknown && res.IsCorrect != models.CorrectnessOf(v.Correct)
	if !contradicts && res.CorrectAnswer != "" {
		contradicts = !agrees(res.CorrectAnswer, v)
	}

	res.IsCorrect = models.CorrectnessOf(v.Correct)
	res.CorrectAnswer = v.CorrectAnswer
	res.Source = models.GradingSourceRule

	if contradicts || res.Explanation == "" {
		res.Explanation = v.Trace.Explain()
		res.Drills = []models.Drill{}
		res.MistakeType = ""
	}
	switch {
	case v.Correct:
		res.MistakeType = ""
	case res.MistakeType == "" || res.MistakeType == "unknown":
		res.MistakeType = ruleMistakeType
	}
	return res
}

// agrees reports whether a model's correct answer names the computed one.
// A letter can only agree with the option holding the computed value.
// Answers without a letter or number are not counted as disagreement.
func agrees(modelAnswer string, v quiz.Verdict) bool {
	a := quiz.NormalizeAnswer(modelAnswer)
	switch {
	case a.Letter != "":
		return a.Letter == v.Letter
	case a.Value != nil:
		return *a.Value == int64(v.Trace.Value)
	default:
		return true
	}
}

func (s *tutorService) SubmitAnswer(ctx context.Context, sess session.Session, answer string) (session.Session, models.Submission, error) {
	log := logger.FromContext(ctx).WithPrefix("tutor")

	if sess.CurrentQuestion == "" {
		return sess, models.Submission{}, errors.NewBadRequestError("generate a question first")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return sess, models.Submission{}, errors.NewValidationError("answer", "cannot be empty")
	}
	if utf8.RuneCountInString(answer) > maxAnswerLen {
		return sess, models.Submission{}, errors.NewValidationError("answer", "is too long")
	}

	res, err := s.Grade(ctx, sess.CurrentQuestion, answer, sess.Unit, sess.Topic)
	if err != nil {
		return sess, models.Submission{}, err
	}
	sub := models.Submission{Result: res}

	if !s.opts.RecordAllAttempts && res.IsCorrect == models.CorrectnessCorrect {
		log.Debug("correct answer not recorded")
		return sess, sub, nil
	}

	entry := models.WrongbookEntry{
		Unit:          firstNonEmpty(res.Unit, sess.Unit),
		Topic:         firstNonEmpty(res.Topic, sess.Topic),
		Question:      sess.CurrentQuestion,
		UserAnswer:    answer,
		CorrectAnswer: res.CorrectAnswer,
		Explanation:   res.Explanation,
		MistakeType:   res.MistakeType,
		NextDrill:     nextDrill(res.Drills),
	}
	id, err := s.wrongbook.Append(ctx, entry)
	if err != nil {
		log.Error("failed to record attempt: %v", err)
		return sess, models.Submission{}, errors.NewInternalError(err)
	}
	s.opts.Metrics.IncWrongbookEntry()
	log.Info("attempt recorded: id=%d, result=%s", id, res.IsCorrect)

	sub.EntryID = id
	sub.Saved = true
	return sess, sub, nil
}

// nextDrill encodes the first drill as {"q":...,"a":...}, or "" when there is none.
func nextDrill(drills []models.Drill) string {
	if len(drills) == 0 {
		return ""
	}
	b, err := json.Marshal(drills[0])
	if err != nil {
		return ""
	}
	return string(b)
}

func (s *tutorService) Chat(ctx context.Context, sess session.Session, message string) (session.Session, string, error) {
	log := logger.FromContext(ctx).WithPrefix("tutor")

	message = strings.TrimSpace(message)
	if message == "" {
		return sess, "", errors.NewValidationError("message", "cannot be empty")
	}
	if utf8.RuneCountInString(message) > maxMessageLen {
		return sess, "", errors.NewValidationError("message", "is too long")
	}

	userMsg := models.ChatMessage{Role: models.RoleUser, Content: message}
	history := sess.WithChat(userMsg).RecentChat(chatContext)

	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, llm.Message{Role: models.RoleSystem, Content: chatSystemPrompt})
	msgs = append(msgs, history...)

	log.Debug("chat turn: %d context messages", len(history))
	reply, err := s.llm.Complete(ctx, msgs, chatTemperature)
	if err != nil {
		log.Error("chat failed: %v", err)
		return sess, "", errors.NewUpstreamError("the tutor is unavailable, please try again", err)
	}
	reply = strings.TrimSpace(reply)

	sess = sess.WithChat(userMsg, models.ChatMessage{Role: models.RoleAssistant, Content: reply})
	return sess, reply, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
