package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/experiment"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/generator"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/packing"
)

func sampleReport() experiment.Report {
	q := 1.04
	settings := generator.Settings{ItemSizeMin: 0, ItemSizeMax: 100, ItemLimit: 5000, ContainerSize: 400}
	empty := generator.Settings{ItemSizeMin: 1, ItemSizeMax: 5, ItemLimit: 0, ContainerSize: 10}

	return experiment.Report{
		Results: []experiment.Result{
			{
				Solver:         "First Fit Decreasing",
				Algorithm:      packing.FirstFit,
				Sorted:         true,
				Settings:       settings,
				Iteration:      2,
				ContainersUsed: 650,
				Optimal:        625,
				Quality:        &q,
				Duration:       1500 * time.Microsecond,
			},
			{
				Solver:    "Next Fit",
				Algorithm: packing.NextFit,
				Settings:  empty,
			},
		},
		Failures: []experiment.Failure{
			{
				Solver:    "Next Fit",
				Settings:  settings,
				Iteration: 4,
				Err:       fmt.Errorf("next fit: %w", packing.ErrItemTooLarge),
			},
		},
	}
}

func TestWriteJSONDocument(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var doc struct {
		Results   []map[string]any `json:"results"`
		Failures  []map[string]any `json:"failures"`
		Summaries []map[string]any `json:"summaries"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(doc.Results) != 2 {
		t.Fatalf("results length = %d, want 2", len(doc.Results))
	}
	if len(doc.Failures) != 1 {
		t.Fatalf("failures length = %d, want 1", len(doc.Failures))
	}
	if len(doc.Summaries) != 2 {
		t.Fatalf("summaries length = %d, want 2", len(doc.Summaries))
	}

	first := doc.Results[0]
	if first["solver"] != "First Fit Decreasing" {
		t.Errorf("results[0].solver = %v, want %q", first["solver"], "First Fit Decreasing")
	}
	if first["quality"] != 1.04 {
		t.Errorf("results[0].quality = %v, want 1.04", first["quality"])
	}
	if first["duration_us"] != float64(1500) {
		t.Errorf("results[0].duration_us = %v, want 1500", first["duration_us"])
	}

	second := doc.Results[1]
	if v, ok := second["quality"]; !ok || v != nil {
		t.Errorf("results[1].quality = %v, want null", v)
	}

	msg, _ := doc.Failures[0]["error"].(string)
	if !strings.Contains(msg, "item does not fit an empty container") {
		t.Errorf("failures[0].error = %q, want the unsatisfiable-item message", msg)
	}
}

func TestWriteJSONEmptyReportHasEmptyArrays(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, experiment.Report{}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"results", "failures", "summaries"} {
		v, ok := doc[key]
		if !ok {
			t.Fatalf("missing %q section", key)
		}
		arr, ok := v.([]any)
		if !ok {
			t.Fatalf("%q section is %T, want an array", key, v)
		}
		if len(arr) != 0 {
			t.Errorf("%q section has %d entries, want 0", key, len(arr))
		}
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := strings.Join([]string{
		"solver,id,sorted,item_size_min,item_size_max,item_limit,container_size,iteration,containers_used,optimal_containers,quality,duration_us",
		"First Fit Decreasing,First Fit,true,0,100,5000,400,2,650,625,1.04,1500",
		"Next Fit,Next Fit,false,1,5,0,10,0,0,0,,0",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("WriteCSV() output:\n%s\nwant:\n%s", got, want)
	}
}

func TestCSVHeaderMatchesRowFields(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeOf(Row{})
	if typ.NumField() != len(csvHeader) {
		t.Fatalf("Row has %d fields, csv header has %d columns", typ.NumField(), len(csvHeader))
	}
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("json")
		if tag != csvHeader[i] {
			t.Errorf("field %s: json tag %q does not match csv column %q", typ.Field(i).Name, tag, csvHeader[i])
		}
	}
}
