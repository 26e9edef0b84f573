package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"FlashSaleSwiggy/models"
	"FlashSaleSwiggy/services"
)

func TestListCSVFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"outlets.csv", "items.CSV", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := listCSVFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"items.CSV", "outlets.csv"}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestListCmd_EmptyDir(t *testing.T) {
	cmd := newRootCmd()
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"list", "--dir", t.TempDir()})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for directory without csv files")
	}
	if !strings.Contains(stderr.String(), "no CSV files found") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestCheckCmd_RequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"check", "--items", "items.csv"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected missing --outlets to fail")
	}
}

func TestReadCSVFile_WrapsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	if err := os.WriteFile(path, []byte("sku\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := readCSVFile(path, services.ReadTargetItems)
	if !errors.Is(err, services.ErrItemColumnNotFound) {
		t.Fatalf("expected ErrItemColumnNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	results := []models.MatchResult{{RestaurantID: "9", Name: "Kulfi", Status: models.StatusNotFound}}

	if err := writeCSVFile(path, results, services.WriteOptions{IncludeRestaurant: true}); err != nil {
		t.Fatalf("write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Restaurant ID,Item Name,Base Price (₹),Final Price (₹),Status\n\"9\",\"Kulfi\",\"-\",\"-\",\"not found\"\n"
	if string(b) != want {
		t.Errorf("got %q", b)
	}
}

func TestCheckOutletCmd_BlankRestaurantID(t *testing.T) {
	items := filepath.Join(t.TempDir(), "items.csv")
	if err := os.WriteFile(items, []byte("item\nKulfi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "out.csv")

	for _, id := range []string{"", "   "} {
		cmd := newRootCmd()
		var stderr bytes.Buffer
		cmd.SetErr(&stderr)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"check-outlet", "--items", items, "--restaurant-id", id, "--out", out})

		err := cmd.Execute()
		if !errors.Is(err, errRestaurantIDRequired) {
			t.Fatalf("restaurant id %q: expected errRestaurantIDRequired, got %v", id, err)
		}
		if !strings.Contains(stderr.String(), "--restaurant-id must not be empty") {
			t.Errorf("unexpected stderr %q", stderr.String())
		}
		if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
			t.Errorf("no report should be written for a blank restaurant id")
		}
	}
}
