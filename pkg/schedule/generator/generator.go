package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"agriverse/entities"
	"agriverse/pkg/ai"
	"agriverse/pkg/logger"
)

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

type Task struct {
	Day         int    `json:"day"`
	Phase       string `json:"phase"`
	Task        string `json:"task"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type Request struct {
	CropName  string
	StartDate string
	SoilType  string
	Season    string
	Weather   *entities.WeatherReading
}

// Result is never empty. Reason explains a fallback.
type Result struct {
	Tasks  []Task
	Source string
	Reason string
}

type kbSearcher interface {
	Search(query string, k int) ([]entities.KBChunk, error)
}

type Generator struct {
	llm      ai.Client
	kb       kbSearcher
	template []Task
	log      *logger.Logger
}

// New returns a generator. kb may be nil; an empty template selects Builtin.
func New(llm ai.Client, kb kbSearcher, template []Task, log *logger.Logger) *Generator {
	if len(template) == 0 {
		template = Builtin()
	}
	return &Generator{llm: llm, kb: kb, template: template, log: log.With("component", "schedule_generator")}
}

func (g *Generator) Generate(ctx context.Context, req Request) Result {
	reply, err := g.llm.Complete(ctx, "", g.prompt(req))
	if err != nil {
		return g.fallback(req, "ai call failed: "+err.Error())
	}
	tasks, err := ParseTasks(reply)
	if err != nil {
		return g.fallback(req, err.Error())
	}
	return Result{Tasks: tasks, Source: SourceAI}
}

// Fallback returns a copy of the configured template.
func (g *Generator) Fallback() []Task {
	return append([]Task(nil), g.template...)
}

func (g *Generator) fallback(req Request, reason string) Result {
	g.log.Warn("schedule generator fallback", "crop", req.CropName, "reason", reason)
	return Result{Tasks: g.Fallback(), Source: SourceFallback, Reason: reason}
}

// ParseTasks extracts the first JSON array in reply and coerces each element into a Task.
func ParseTasks(reply string) ([]Task, error) {
	var raw []json.RawMessage
	if err := ai.DecodeArray(reply, &raw); err != nil {
		return nil, fmt.Errorf("unparseable schedule: %w", err)
	}
	out := make([]Task, 0, len(raw))
	for _, r := range raw {
		var m map[string]any
		if json.Unmarshal(r, &m) != nil {
			continue
		}
		out = append(out, coerce(m))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("schedule has no task objects")
	}
	sortByDay(out)
	return out, nil
}

func coerce(m map[string]any) Task {
	t := Task{
		Day:         toDay(m["day"]),
		Phase:       str(m["phase"]),
		Task:        str(m["task"]),
		Description: str(m["description"]),
		Priority:    str(m["priority"]),
	}
	return normalize(t)
}

func normalize(t Task) Task {
	if t.Phase == "" {
		t.Phase = "Unknown"
	}
	if t.Task == "" {
		t.Task = "Unknown Task"
	}
	switch strings.ToLower(t.Priority) {
	case "high":
		t.Priority = entities.PriorityHigh
	case "low":
		t.Priority = entities.PriorityLow
	case "medium", "":
		t.Priority = entities.PriorityMedium
	}
	return t
}

func str(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// maxDay bounds AI day offsets to ten years.
const maxDay = 3650

// toDay accepts 5, 5.0, "5", "Day 5" and "Day 5-7" (first number wins); anything else,
// including offsets beyond maxDay, is day 1.
func toDay(v any) int {
	switch x := v.(type) {
	case float64:
		if x >= 0 && x <= maxDay && !math.IsNaN(x) {
			return int(x)
		}
	case string:
		fields := strings.FieldsFunc(x, func(r rune) bool { return r < '0' || r > '9' })
		if len(fields) > 0 {
			if n, err := strconv.Atoi(fields[0]); err == nil && n <= maxDay {
				return n
			}
		}
	}
	return 1
}

func sortByDay(ts []Task) {
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].Day < ts[j].Day })
}

func (g *Generator) prompt(req Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a complete cultivation schedule for %s starting on %s.\n", req.CropName, req.StartDate)
	if req.SoilType != "" {
		fmt.Fprintf(&sb, "Soil type: %s.\n", req.SoilType)
	}
	if req.Season != "" {
		fmt.Fprintf(&sb, "Season: %s.\n", req.Season)
	}
	if w := req.Weather; w != nil {
		fmt.Fprintf(&sb, "Current weather: %.1f°C, %.0f%% humidity, %s.\n", w.Temperature, w.Humidity, w.Description)
	}
	if snippets := g.guideSnippets(req.CropName); snippets != "" {
		sb.WriteString("\nCrop guide notes:\n")
		sb.WriteString(snippets)
		sb.WriteString("\n")
	}
	sb.WriteString(`
Cover every phase from Preparation through Planting, Growth and Maintenance to Harvest.
Reply with ONLY a JSON array of 15-20 objects, ordered by day, each shaped as:
{"day": <days after start, integer>, "phase": "...", "task": "...", "description": "...", "priority": "High|Medium|Low"}`)
	return sb.String()
}

func (g *Generator) guideSnippets(crop string) string {
	if g.kb == nil || crop == "" {
		return ""
	}
	chunks, err := g.kb.Search(crop, 3)
	if err != nil {
		g.log.Warn("crop guide lookup failed", "crop", crop, "error", err)
		return ""
	}
	var sb strings.Builder
	for _, ch := range chunks {
		if sb.Len() > 3000 {
			break
		}
		sb.WriteString("---\n")
		sb.WriteString(strings.TrimSpace(ch.Text))
		sb.WriteString("\n")
	}
	return sb.String()
}
