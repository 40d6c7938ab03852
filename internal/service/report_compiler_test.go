package service

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"questedu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeStudent(id uint, name, email string) model.User {
	return model.User{
		BaseModel: model.BaseModel{ID: id},
		FullName:  name,
		Email:     email,
		Role:      model.Student,
	}
}

func compileFixture(t *testing.T) model.ReportPayload {
	t.Helper()

	quests := []model.Quest{makeQuest(1, "Salam"), makeQuest(2, "Angka")}
	students := []model.User{
		makeStudent(10, "Budi", "budi@example.com"),
		makeStudent(11, "Ani", "ani@example.com"),
		makeStudent(12, "Citra", "citra@example.com"),
	}

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	attempts := []model.QuestAttempt{
		makeAttempt(10, 1, floatPtr(80), true, now),
		makeAttempt(10, 2, floatPtr(60), false, now),
		makeAttempt(11, 1, floatPtr(70), true, now),
		// 学生 12 什么都没做
	}

	agg := AggregateAttempts(quests, []uint{10, 11, 12}, attempts)
	meta := ReportMeta{LessonTitle: "Pelajaran 1", ChapterTitle: "Bab 1", ClassName: "7A"}

	return CompileReport(meta, quests, students, agg, nil, 70, now)
}

func TestCompileReport_ThresholdIsInclusive(t *testing.T) {
	payload := compileFixture(t)

	byName := make(map[string]model.StudentRow)
	for _, row := range payload.Students {
		byName[row.Name] = row
	}

	// Budi: (80+60)/2 = 70，恰好等于阈值，记为 Lulus
	budi := byName["Budi"]
	assert.Equal(t, 70.0, budi.Score)
	assert.True(t, budi.Passed)
	assert.Equal(t, StatusPassed, budi.Status)

	// Ani 只做了 Q1，平均 70
	ani := byName["Ani"]
	assert.Equal(t, 70.0, ani.Score)
	assert.Equal(t, StatusPassed, ani.Status)

	// Citra 未尝试任何任务
	citra := byName["Citra"]
	assert.Zero(t, citra.Score)
	assert.Equal(t, StatusFailed, citra.Status)
}

func TestCompileReport_NilScoreForUnattempted(t *testing.T) {
	payload := compileFixture(t)

	byName := make(map[string]model.StudentRow)
	for _, row := range payload.Students {
		byName[row.Name] = row
	}

	ani := byName["Ani"]
	require.NotNil(t, ani.QuestScores[1])
	assert.Equal(t, 70.0, *ani.QuestScores[1])
	assert.Nil(t, ani.QuestScores[2])

	citra := byName["Citra"]
	assert.Nil(t, citra.QuestScores[1])
	assert.Nil(t, citra.QuestScores[2])
}

func TestCompileReport_StatsOverAttemptedOnly(t *testing.T) {
	payload := compileFixture(t)

	// Citra 没有成绩，不拉低均分和最低分
	assert.Equal(t, 3, payload.Stats.TotalStudents)
	assert.Equal(t, 70.0, payload.Stats.AvgScore)
	assert.Equal(t, 70.0, payload.Stats.HighestScore)
	assert.Equal(t, 70.0, payload.Stats.LowestScore)
	assert.Equal(t, 2, payload.Stats.PassedCount)
}

func TestCompileReport_SortsStudentsByName(t *testing.T) {
	payload := compileFixture(t)

	require.Len(t, payload.Students, 3)
	assert.Equal(t, "Ani", payload.Students[0].Name)
	assert.Equal(t, "Budi", payload.Students[1].Name)
	assert.Equal(t, "Citra", payload.Students[2].Name)
}

func TestCompileReport_JSONLayout(t *testing.T) {
	payload := compileFixture(t)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))

	// 快照布局与既有导出格式对齐
	for _, key := range []string{"lessonTitle", "chapterTitle", "className", "questColumns", "stats", "students"} {
		assert.Contains(t, doc, key)
	}

	var stats map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["stats"], &stats))
	for _, key := range []string{"totalStudents", "avgScore", "highestScore", "lowestScore", "passedCount"} {
		assert.Contains(t, stats, key)
	}
}

func TestExportReportCSV(t *testing.T) {
	payload := compileFixture(t)

	records, err := csv.NewReader(strings.NewReader(string(ExportReportCSV(&payload)))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"Nama", "Email", "Kelas", "Salam", "Angka", "Rata-rata", "Status"}, records[0])

	// Ani 未做 Q2，占位符 "-" 而非 0
	assert.Equal(t, []string{"Ani", "ani@example.com", "7A", "70.0", "-", "70.0", "Lulus"}, records[1])
	assert.Equal(t, []string{"Budi", "budi@example.com", "7A", "80.0", "60.0", "70.0", "Lulus"}, records[2])
	assert.Equal(t, []string{"Citra", "citra@example.com", "7A", "-", "-", "0.0", "Tidak Lulus"}, records[3])
}
