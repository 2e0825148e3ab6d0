package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"agriverse/entities"
	"agriverse/pkg/ai"
	"agriverse/pkg/logger"
)

var wheat = Request{CropName: "Wheat", StartDate: "2025-03-01", SoilType: "Loamy", Season: "spring"}

func TestGenerate_FallbackWhenAIFails(t *testing.T) {
	for name, client := range map[string]ai.Client{
		"offline":     ai.NewMock(),
		"error":       &ai.Mock{Err: errors.New("timeout")},
		"prose":       ai.NewReplying("I cannot help with that."),
		"bad json":    ai.NewReplying("[{day: 1,}]"),
		"empty array": ai.NewReplying("[]"),
		"no objects":  ai.NewReplying(`["plough", "sow"]`),
	} {
		t.Run(name, func(t *testing.T) {
			res := New(client, nil, nil, logger.Nop()).Generate(context.Background(), wheat)
			assert.Equal(t, SourceFallback, res.Source)
			assert.NotEmpty(t, res.Reason)
			require.Len(t, res.Tasks, 16)
			first := res.Tasks[0]
			assert.Equal(t, 1, first.Day)
			assert.Equal(t, "Preparation", first.Phase)
			assert.Equal(t, "Soil Testing", first.Task)
			assert.Equal(t, 115, res.Tasks[15].Day)
		})
	}
}

func TestBuiltin_CoversFivePhases(t *testing.T) {
	phases := map[string]bool{}
	for _, tk := range Builtin() {
		phases[tk.Phase] = true
		assert.NotEmpty(t, tk.Description)
		assert.Contains(t, []string{"High", "Medium", "Low"}, tk.Priority)
	}
	assert.Len(t, phases, 5)
}

func TestGenerate_ParsesAIReply(t *testing.T) {
	reply := "Here is your plan:\n```json\n" + `[
	  {"day": 10, "phase": "Planting", "task": "Sow", "description": "Sow rows", "priority": "high"},
	  {"day": "Day 2", "task": "Plough"},
	  {"phase": "Growth"}
	]` + "\n```"
	m := ai.NewReplying(reply)
	res := New(m, nil, nil, logger.Nop()).Generate(context.Background(), wheat)

	assert.Equal(t, SourceAI, res.Source)
	require.Len(t, res.Tasks, 3)
	assert.Equal(t, Task{Day: 1, Phase: "Growth", Task: "Unknown Task", Priority: "Medium"}, res.Tasks[0])
	assert.Equal(t, Task{Day: 2, Phase: "Unknown", Task: "Plough", Priority: "Medium"}, res.Tasks[1])
	assert.Equal(t, "High", res.Tasks[2].Priority)

	require.Equal(t, 1, m.Calls())
	assert.Contains(t, m.Prompts[0], "Wheat")
	assert.Contains(t, m.Prompts[0], "2025-03-01")
	assert.Contains(t, m.Prompts[0], "Loamy")
}

func TestParseTasks_DayCoercion(t *testing.T) {
	tasks, err := ParseTasks(`[
	  {"day": 1e20, "task": "huge"},
	  {"day": -4, "task": "negative"},
	  {"day": "Day 5-7", "task": "range"},
	  {"day": "days 12 to 14", "task": "words"},
	  {"day": "99999999999999999999", "task": "overflow"},
	  {"day": 40.9, "task": "float"}
	]`)
	require.NoError(t, err)
	days := map[string]int{}
	for _, tk := range tasks {
		assert.GreaterOrEqual(t, tk.Day, 0)
		days[tk.Task] = tk.Day
	}
	assert.Equal(t, map[string]int{"huge": 1, "negative": 1, "range": 5, "words": 12, "overflow": 1, "float": 40}, days)
	assert.Equal(t, 40, tasks[len(tasks)-1].Day)
}

type fakeKB struct{ chunks []entities.KBChunk }

func (f fakeKB) Search(string, int) ([]entities.KBChunk, error) { return f.chunks, nil }

func TestGenerate_PromptIncludesWeatherAndGuide(t *testing.T) {
	m := ai.NewMock()
	req := wheat
	req.Weather = &entities.WeatherReading{Temperature: 25, Humidity: 65, Description: "Partly cloudy"}
	New(m, fakeKB{[]entities.KBChunk{{Text: "Wheat needs crown root irrigation at 21 days."}}}, nil, logger.Nop()).
		Generate(context.Background(), req)

	require.Equal(t, 1, m.Calls())
	assert.Contains(t, m.Prompts[0], "Partly cloudy")
	assert.Contains(t, m.Prompts[0], "crown root irrigation")
}

func TestLoadTemplate_CSVWithAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.csv")
	csv := "\uFEFFDay,Stage,Title,Notes,Priority\n" +
		"5,Planting,Sow,,low\n" +
		"x,Bad,Row,,\n" +
		"1,Preparation,Plough,Deep plough,\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	tasks, err := LoadTemplate(path)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, Task{Day: 1, Phase: "Preparation", Task: "Plough", Description: "Deep plough", Priority: "Medium"}, tasks[0])
	assert.Equal(t, "Low", tasks[1].Priority)

	g := New(ai.NewMock(), nil, tasks, logger.Nop())
	res := g.Generate(context.Background(), wheat)
	assert.Len(t, res.Tasks, 2)
}

func TestLoadTemplate_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	x := excelize.NewFile()
	sheet := x.GetSheetName(0)
	rows := [][]any{
		{"day", "phase", "task", "description", "priority"},
		{1, "Preparation", "Soil Testing", "pH test", "High"},
		{30, "Growth", "Top Dressing", "Urea", "High"},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, x.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, x.SaveAs(path))
	require.NoError(t, x.Close())

	tasks, err := LoadTemplate(path)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 30, tasks[1].Day)
}

func TestLoadTemplate_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadTemplate(filepath.Join(dir, "plan.json"))
	assert.ErrorContains(t, err, "unsupported")

	noDay := filepath.Join(dir, "noday.csv")
	require.NoError(t, os.WriteFile(noDay, []byte("phase,task\nA,B\n"), 0o600))
	_, err = LoadTemplate(noDay)
	assert.ErrorContains(t, err, "missing required columns")

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("day,task\n"), 0o600))
	_, err = LoadTemplate(empty)
	assert.ErrorContains(t, err, "no usable rows")
}
