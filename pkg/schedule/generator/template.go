package generator

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Builtin is the fallback plan used when the AI reply is unusable.
func Builtin() []Task {
	return []Task{
		{Day: 1, Phase: "Preparation", Task: "Soil Testing", Description: "Test soil pH, organic matter and N-P-K levels to plan fertilizer doses.", Priority: "High"},
		{Day: 3, Phase: "Preparation", Task: "Land Preparation", Description: "Plough and harrow the field to a fine tilth and level it for even irrigation.", Priority: "High"},
		{Day: 5, Phase: "Preparation", Task: "Apply Base Fertilizer", Description: "Incorporate well-rotted manure and the basal fertilizer dose into the topsoil.", Priority: "Medium"},
		{Day: 7, Phase: "Planting", Task: "Seed Treatment", Description: "Treat seed with fungicide or bio-inoculant to protect against seed-borne disease.", Priority: "Medium"},
		{Day: 8, Phase: "Planting", Task: "Sowing/Planting", Description: "Sow or transplant at the recommended spacing and depth for the crop.", Priority: "High"},
		{Day: 10, Phase: "Planting", Task: "First Irrigation", Description: "Give a light irrigation to settle the soil around seeds or seedlings.", Priority: "High"},
		{Day: 20, Phase: "Growth", Task: "Thinning and Gap Filling", Description: "Remove weak seedlings and fill gaps to keep a uniform plant stand.", Priority: "Medium"},
		{Day: 25, Phase: "Growth", Task: "First Weeding", Description: "Remove weeds by hand or hoe before they compete for water and nutrients.", Priority: "Medium"},
		{Day: 30, Phase: "Growth", Task: "Top Dressing Fertilizer", Description: "Apply the first split of nitrogen as top dressing followed by irrigation.", Priority: "High"},
		{Day: 45, Phase: "Growth", Task: "Pest Monitoring", Description: "Scout the field weekly for pests and act when economic thresholds are crossed.", Priority: "High"},
		{Day: 60, Phase: "Maintenance", Task: "Second Weeding", Description: "Carry out a second weeding and earth up plants where needed.", Priority: "Medium"},
		{Day: 70, Phase: "Maintenance", Task: "Irrigation Management", Description: "Irrigate at critical stages and avoid water stress during flowering.", Priority: "High"},
		{Day: 80, Phase: "Maintenance", Task: "Disease Inspection", Description: "Inspect leaves and stems for disease symptoms and treat early.", Priority: "High"},
		{Day: 95, Phase: "Maintenance", Task: "Pre-harvest Assessment", Description: "Check crop maturity and plan labour, equipment and storage for harvest.", Priority: "Medium"},
		{Day: 110, Phase: "Harvest", Task: "Harvesting", Description: "Harvest at physiological maturity in dry weather to reduce losses.", Priority: "High"},
		{Day: 115, Phase: "Harvest", Task: "Post-harvest Handling", Description: "Dry, clean, grade and store the produce safely or move it to market.", Priority: "Medium"},
	}
}

// LoadTemplate reads a fallback plan from a .csv or .xlsx file with columns
// day, phase, task, description, priority (header aliases accepted).
func LoadTemplate(path string) ([]Task, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported template format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()
	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return x.GetRows(sheets[0])
}

func normHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF") // BOM
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func parseRows(rows [][]string) ([]Task, error) {
	if len(rows) == 0 {
		return nil, errors.New("template is empty")
	}
	head := rows[0]
	hmap := map[string]int{}
	for i, h := range head {
		hmap[normHeader(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[normHeader(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cDay := findAny("day", "days", "day_offset", "dayoffset")
	cPhase := findAny("phase", "stage")
	cTask := findAny("task", "title", "name", "activity")
	cDesc := findAny("description", "notes", "details")
	cPrio := findAny("priority", "importance")
	if cDay == -1 || cTask == -1 {
		return nil, fmt.Errorf("template missing required columns. Found headers: %v. Need at least: day, task", head)
	}

	var out []Task
	for _, rec := range rows[1:] {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		day, err := strconv.Atoi(get(cDay))
		if err != nil || day < 0 || get(cTask) == "" {
			continue
		}
		out = append(out, normalize(Task{
			Day:         day,
			Phase:       get(cPhase),
			Task:        get(cTask),
			Description: get(cDesc),
			Priority:    get(cPrio),
		}))
	}
	if len(out) == 0 {
		return nil, errors.New("template has no usable rows")
	}
	sortByDay(out)
	return out, nil
}
