package assessment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validStages = `names:
  - No digitalization
  - Spreadsheets & PPT
  - Centralization & Dashboards
  - Automated Pipelines & Warehouse
  - Real-Time & Governed Platforms
  - Automated Reporting & Alerts
  - Advanced ML/AI Integration
recommendations: [r0, r1, r2, r3, r4, r5, r6]
quick_improvements: [q0, q1, q2, q3, q4, q5, q6]
long_term_goals: [l0, l1, l2, l3, l4, l5, l6]
`

const validCapture = `id: capture
title: Data Capture
weight: 0.35
image: stage-images/capture.png
questions:
  - id: cap.q1
    prompt: How confident are you using AI tools today?
    weight: 1.5
    answers:
      - {label: Not at all, value: 0}
      - {label: A little, value: 1}
      - {label: Comfortable, value: 2}
      - {label: Power user, value: 3}
  - id: cap.q2
    prompt: How standardized are your internal processes?
    weight: 1.0
    answers:
      - {label: Not at all, value: 0}
      - {label: A little, value: 1}
      - {label: Comfortable, value: 2}
      - {label: Power user, value: 3}
recommendations: [r0, r1, r2, r3, r4, r5, r6]
quick_tips: [t0, t1, t2, t3, t4, t5, t6]
long_term_goals: [g0, g1, g2, g3, g4, g5, g6]
`

func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}

func TestLoad_Valid(t *testing.T) {
	storage := strings.ReplaceAll(validCapture, "capture", "storage")
	storage = strings.ReplaceAll(storage, "cap.", "stor.")
	dir := writeContent(t, map[string]string{
		"01-capture.yaml": validCapture,
		"02-storage.yaml": storage,
		"stages.yaml":     validStages,
	})

	content, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(content.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(content.Sections))
	}
	// lexical filename order is the display order
	if content.Sections[0].ID != "capture" || content.Sections[1].ID != "storage" {
		t.Errorf("section order = %s, %s; want capture, storage",
			content.Sections[0].ID, content.Sections[1].ID)
	}
	if content.Sections[0].Weight != 0.35 {
		t.Errorf("capture weight = %v, want 0.35", content.Sections[0].Weight)
	}
	if got := content.Sections[0].MaxRaw(); got != 7.5 {
		t.Errorf("capture MaxRaw() = %v, want 7.5", got)
	}
	if content.Stages.Names[6] != "Advanced ML/AI Integration" {
		t.Errorf("stage 6 name = %q", content.Stages.Names[6])
	}

	sec, ok := content.Section("storage")
	if !ok || sec.ID != "storage" {
		t.Errorf("Section(storage) = %+v, %v", sec, ok)
	}
	if _, ok := content.Section("nope"); ok {
		t.Error("Section(nope) should not be found")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(files map[string]string)
		wantErr string
	}{
		{
			name:    "missing stages file",
			mutate:  func(f map[string]string) { delete(f, "stages.yaml") },
			wantErr: "entries",
		},
		{
			name: "duplicate question id",
			mutate: func(f map[string]string) {
				dup := strings.ReplaceAll(validCapture, "id: capture", "id: other")
				f["02-other.yaml"] = dup
			},
			wantErr: "appears in both",
		},
		{
			name: "duplicate section id",
			mutate: func(f map[string]string) {
				dup := strings.ReplaceAll(validCapture, "cap.", "dup.")
				f["02-dup.yaml"] = dup
			},
			wantErr: "duplicate section id",
		},
		{
			name: "three answers rejected by schema",
			mutate: func(f map[string]string) {
				f["01-capture.yaml"] = strings.Replace(validCapture,
					"      - {label: Power user, value: 3}\n", "", 1)
			},
			wantErr: "schema violations",
		},
		{
			name: "blank narrative entry",
			mutate: func(f map[string]string) {
				f["01-capture.yaml"] = strings.Replace(validCapture,
					"quick_tips: [t0, t1, t2, t3, t4, t5, t6]",
					`quick_tips: [t0, t1, "", t3, t4, t5, t6]`, 1)
			},
			wantErr: "blank quick tip",
		},
		{
			name: "short stage table",
			mutate: func(f map[string]string) {
				f["stages.yaml"] = strings.Replace(validStages,
					"recommendations: [r0, r1, r2, r3, r4, r5, r6]",
					"recommendations: [r0, r1]", 1)
			},
			wantErr: "must have 7 entries",
		},
		{
			name: "zero question weight",
			mutate: func(f map[string]string) {
				f["01-capture.yaml"] = strings.Replace(validCapture,
					"weight: 1.5", "weight: 0", 1)
			},
			wantErr: "schema violations",
		},
		{
			name:    "empty dir",
			mutate:  func(f map[string]string) { delete(f, "01-capture.yaml"); delete(f, "stages.yaml") },
			wantErr: "no section files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{
				"01-capture.yaml": validCapture,
				"stages.yaml":     validStages,
			}
			tt.mutate(files)

			_, err := Load(writeContent(t, files))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("Load() should fail for a missing directory")
	}
}
