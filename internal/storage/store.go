package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/gaslab/internal/gas"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Label       string             `json:"label"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	HeavyCount  int                `json:"heavy_count"`
	LightCount  int                `json:"light_count"`
	Temperature float64            `json:"temperature"`
	Hold        string             `json:"hold"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Series holds the per-step observables read back from a saved run.
type Series struct {
	Times       []float64
	Temperature []float64
	Pressure    []float64
	HeavyCounts []int
	LightCounts []int
	Widths      []float64
}

func (s *Store) Save(label string, cfg gas.Config, result *gas.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", label, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Label:       label,
		Timestamp:   time.Now(),
		Seed:        cfg.Seed,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		HeavyCount:  cfg.HeavyCount,
		LightCount:  cfg.LightCount,
		Temperature: cfg.InitialTemperature,
		Hold:        cfg.HoldMode.String(),
		Metrics:     result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "observables.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time", "temperature", "pressure", "heavy", "light", "width"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Temperature[i], 'f', 6, 64),
			strconv.FormatFloat(result.Pressure[i], 'f', 6, 64),
			strconv.Itoa(result.HeavyCounts[i]),
			strconv.Itoa(result.LightCounts[i]),
			strconv.FormatFloat(result.Widths[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	csvPath := filepath.Join(s.baseDir, runID, "observables.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 6 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		temp, _ := strconv.ParseFloat(record[1], 64)
		press, _ := strconv.ParseFloat(record[2], 64)
		heavy, _ := strconv.Atoi(record[3])
		light, _ := strconv.Atoi(record[4])
		width, _ := strconv.ParseFloat(record[5], 64)

		series.Times = append(series.Times, t)
		series.Temperature = append(series.Temperature, temp)
		series.Pressure = append(series.Pressure, press)
		series.HeavyCounts = append(series.HeavyCounts, heavy)
		series.LightCounts = append(series.LightCounts, light)
		series.Widths = append(series.Widths, width)
	}

	return series, nil
}
