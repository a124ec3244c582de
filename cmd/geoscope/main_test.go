package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvdleeuw/geoscope/pkg/config"
)

func TestResolveDark(t *testing.T) {
	pref := true
	cfg := config.Config{DarkMode: &pref}

	if !resolveDark("dark", config.DefaultConfig()) {
		t.Error("explicit dark flag ignored")
	}
	if resolveDark("light", cfg) {
		t.Error("explicit light flag must beat the persisted preference")
	}
	if !resolveDark("auto", cfg) {
		t.Error("auto must honor the persisted preference")
	}
}

func TestRunSnapshot_Regions(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "records.csv")
	csv := "name,region,lat,lng\nAlice,CA,34.05,-118.24\nBob,CA,37.77,-122.42\nCara,NY,40.71,-74.00\n"
	if err := os.WriteFile(data, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "chart.svg")
	if err := runSnapshot(data, out, "regions", false, false); err != nil {
		t.Fatalf("runSnapshot: %v", err)
	}

	body, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "CA") {
		t.Error("snapshot missing region data")
	}
}

func TestRunSnapshot_Map(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "records.csv")
	csv := "name,region,lat,lng\nAlice,CA,34.05,-118.24\nCara,NY,40.71,-74.00\n"
	if err := os.WriteFile(data, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "map.svg")
	if err := runSnapshot(data, out, "map", false, true); err != nil {
		t.Fatalf("runSnapshot: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestRunSnapshot_UnknownView(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "records.csv")
	if err := os.WriteFile(data, []byte("name\nAlice\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runSnapshot(data, filepath.Join(dir, "x.svg"), "timeline", false, false)
	if err == nil || !strings.Contains(err.Error(), "unknown snapshot view") {
		t.Errorf("err = %v, want unknown-view error", err)
	}
}
