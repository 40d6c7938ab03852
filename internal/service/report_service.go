package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"questedu_backend/internal/config"
	"questedu_backend/internal/model"
	"questedu_backend/internal/repository"
	"questedu_backend/internal/util"
	"questedu_backend/pkg/logger"
	"questedu_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportPolicy 报表生成策略，支持配置热更新
type ReportPolicy struct {
	PassThreshold float64
	Bands         DifficultyBands
	Retry         util.RetryConfig
}

func PolicyFromConfig(cfg *config.Config) ReportPolicy {
	return ReportPolicy{
		PassThreshold: cfg.Report.PassThreshold,
		Bands: DifficultyBands{
			AttentionBelow: cfg.Report.AttentionBelow,
			ModerateBelow:  cfg.Report.ModerateBelow,
		},
		Retry: util.RetryConfig{
			MaxAttempts: cfg.Report.FetchRetries,
			BaseBackoff: cfg.Report.FetchRetryBackoff,
		},
	}
}

type ReportService struct {
	ClassRepo   *repository.ClassRepository
	QuestRepo   *repository.QuestRepository
	AttemptRepo *repository.AttemptRepository
	ReportRepo  *repository.ReportRepository
	Storage     *StorageService

	mu     sync.RWMutex
	policy ReportPolicy
}

func NewReportService(
	classRepo *repository.ClassRepository,
	questRepo *repository.QuestRepository,
	attemptRepo *repository.AttemptRepository,
	reportRepo *repository.ReportRepository,
	storage *StorageService,
	cfg *config.Config,
) *ReportService {
	return &ReportService{
		ClassRepo:   classRepo,
		QuestRepo:   questRepo,
		AttemptRepo: attemptRepo,
		ReportRepo:  reportRepo,
		Storage:     storage,
		policy:      PolicyFromConfig(cfg),
	}
}

// ApplyConfig 配置热重载回调，阈值调整无需重启
func (s *ReportService) ApplyConfig(cfg *config.Config) {
	s.mu.Lock()
	s.policy = PolicyFromConfig(cfg)
	s.mu.Unlock()
	logger.Log.Info("report policy reloaded",
		zap.Float64("passThreshold", cfg.Report.PassThreshold))
}

func (s *ReportService) currentPolicy() ReportPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// GenerateReport 生成一节课在一个班级上的成绩报表（不落库）。
// 读库带瞬时失败重试；班级/课时不存在是明确错误，空名册/空尝试是合法的零值结果
func (s *ReportService) GenerateReport(ctx context.Context, teacherID, classID, lessonID uint) (*model.ReportPayload, error) {
	start := time.Now()
	payload, err := s.generate(ctx, teacherID, classID, lessonID)
	monitoring.ReportDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.ReportGenerations.WithLabelValues("error").Inc()
		return nil, err
	}
	monitoring.ReportGenerations.WithLabelValues("ok").Inc()
	return payload, nil
}

// storeError 重试耗尽后仍失败，归类为存储不可用，调用方据此返回 503
func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", util.ErrStoreUnavailable, op, err)
}

func (s *ReportService) generate(ctx context.Context, teacherID, classID, lessonID uint) (*model.ReportPayload, error) {
	policy := s.currentPolicy()

	var class *model.Class
	err := util.WithRetry(ctx, policy.Retry, func() error {
		var err error
		class, err = s.ClassRepo.FindByID(classID)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrClassNotFound
		}
		return nil, storeError("fetch class", err)
	}
	if teacherID > 0 && class.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}

	var lesson *model.Lesson
	err = util.WithRetry(ctx, policy.Retry, func() error {
		var err error
		lesson, err = s.QuestRepo.FindLessonByID(lessonID)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestNotFound
		}
		return nil, storeError("fetch lesson", err)
	}

	var quests []model.Quest
	err = util.WithRetry(ctx, policy.Retry, func() error {
		var err error
		quests, err = s.QuestRepo.ListByLesson(lessonID, true)
		return err
	})
	if err != nil {
		return nil, storeError("fetch quests", err)
	}

	var members []model.ClassMember
	err = util.WithRetry(ctx, policy.Retry, func() error {
		var err error
		members, err = s.ClassRepo.ListMembers(classID)
		return err
	})
	if err != nil {
		return nil, storeError("fetch roster", err)
	}

	students := make([]model.User, 0, len(members))
	studentIDs := make([]uint, 0, len(members))
	for _, m := range members {
		if m.Student == nil {
			continue
		}
		students = append(students, *m.Student)
		studentIDs = append(studentIDs, m.StudentID)
	}

	questIDs := make([]uint, 0, len(quests))
	for _, q := range quests {
		questIDs = append(questIDs, q.ID)
	}

	var attempts []model.QuestAttempt
	err = util.WithRetry(ctx, policy.Retry, func() error {
		var err error
		attempts, err = s.AttemptRepo.ListCompleted(questIDs, studentIDs)
		return err
	})
	if err != nil {
		return nil, storeError("fetch attempts", err)
	}

	var questQuestions []model.QuestQuestion
	err = util.WithRetry(ctx, policy.Retry, func() error {
		var err error
		questQuestions, err = s.QuestRepo.ListQuestQuestions(questIDs)
		return err
	})
	if err != nil {
		return nil, storeError("fetch quest questions", err)
	}

	agg := AggregateAttempts(quests, studentIDs, attempts)
	questions := AnalyzeQuestions(questQuestions, attempts, quests, policy.Bands)

	chapterTitle := ""
	if lesson.Chapter != nil {
		chapterTitle = lesson.Chapter.Title
	}
	meta := ReportMeta{
		LessonTitle:  lesson.Title,
		ChapterTitle: chapterTitle,
		ClassName:    class.Name,
	}

	payload := CompileReport(meta, quests, students, agg, questions, policy.PassThreshold, time.Now())
	return &payload, nil
}

// SaveReport 生成并持久化快照，CSV 归档到对象存储（尽力而为，失败只记日志）
func (s *ReportService) SaveReport(ctx context.Context, teacherID, classID, lessonID uint) (*model.ReportSnapshot, error) {
	payload, err := s.GenerateReport(ctx, teacherID, classID, lessonID)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal report payload: %w", err)
	}

	lesson, err := s.QuestRepo.FindLessonByID(lessonID)
	if err != nil {
		return nil, fmt.Errorf("fetch lesson: %w", err)
	}

	snapshot := &model.ReportSnapshot{
		TeacherID: teacherID,
		ClassID:   classID,
		ChapterID: lesson.ChapterID,
		LessonID:  lessonID,
		Payload:   string(raw),
	}
	snapshot.ID = model.GenerateUUID()

	csvBytes := ExportReportCSV(payload)
	objectName := fmt.Sprintf("reports/%s.csv", snapshot.ID)
	if _, err := s.Storage.Upload(ctx, objectName, bytes.NewReader(csvBytes), int64(len(csvBytes)), "text/csv"); err != nil {
		logger.Log.Warn("report csv archive failed",
			zap.String("object", objectName), zap.Error(err))
	} else {
		snapshot.CSVObject = objectName
	}

	if err := s.ReportRepo.Create(snapshot); err != nil {
		return nil, fmt.Errorf("save report snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *ReportService) ListReports(teacherID, classID uint) ([]model.ReportSnapshot, error) {
	return s.ReportRepo.ListByTeacher(teacherID, classID)
}

func (s *ReportService) GetReport(teacherID uint, id string) (*model.ReportPayload, error) {
	snapshot, err := s.ReportRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrReportNotFound
		}
		return nil, err
	}
	if snapshot.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}

	var payload model.ReportPayload
	if err := json.Unmarshal([]byte(snapshot.Payload), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal report payload: %w", err)
	}
	return &payload, nil
}

// DeleteReport 快照不可变，重新出报表走删除/重建
func (s *ReportService) DeleteReport(ctx context.Context, teacherID uint, id string) error {
	snapshot, err := s.ReportRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrReportNotFound
		}
		return err
	}
	if snapshot.TeacherID != teacherID {
		return util.ErrPermissionDenied
	}

	if snapshot.CSVObject != "" {
		if err := s.Storage.Delete(ctx, snapshot.CSVObject); err != nil {
			logger.Log.Warn("report csv delete failed",
				zap.String("object", snapshot.CSVObject), zap.Error(err))
		}
	}
	return s.ReportRepo.Delete(id)
}

// ExportReportCSV 把报表快照序列化为 CSV（与既有导出格式对齐）
func ExportReportCSV(payload *model.ReportPayload) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Nama", "Email", "Kelas"}
	for _, col := range payload.QuestColumns {
		header = append(header, col.Title)
	}
	header = append(header, "Rata-rata", "Status")
	w.Write(header)

	for _, row := range payload.Students {
		record := []string{row.Name, row.Email, row.ClassName}
		for _, col := range payload.QuestColumns {
			score := row.QuestScores[col.ID]
			if score == nil {
				record = append(record, "-") // 未尝试，不是 0 分
			} else {
				record = append(record, strconv.FormatFloat(*score, 'f', 1, 64))
			}
		}
		record = append(record, strconv.FormatFloat(row.Score, 'f', 1, 64), row.Status)
		w.Write(record)
	}

	w.Flush()
	return buf.Bytes()
}
