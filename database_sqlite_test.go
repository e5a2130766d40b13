package coge

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestSQLiteSaveLoad(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "saves", "game.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	d := NewGameData("slot1", 1, 0, 1, 4)
	d.SetInt(1, 42)
	d.SetString(1, "castle")
	if err := db.SaveGameData(d); err != nil {
		t.Fatal(err)
	}
	d.SetInt(1, 43)
	if err := db.SaveGameData(d); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := db.SaveGameData(NewGameData("alpha", 0, 0, 0, 0)); err != nil {
		t.Fatal(err)
	}

	got := NewGameData("slot1", 0, 0, 0, 0)
	if err := db.LoadGameData(got); err != nil {
		t.Fatal(err)
	}
	if got.Int(1) != 43 || got.String(1) != "castle" || got.BufferSize() != 4 {
		t.Errorf("loaded int %d string %q size %d", got.Int(1), got.String(1), got.BufferSize())
	}

	names, err := db.SavedNames()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names, []string{"alpha", "slot1"}) {
		t.Errorf("SavedNames = %v", names)
	}

	if err := db.LoadGameData(NewGameData("nope", 0, 0, 0, 0)); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing row err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteMemoryThroughEngine(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(Options{Video: NewHeadlessVideo(64, 64), Clock: &ManualClock{}, Database: db})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { e.Close() })
	if err := e.Initialize(nil); err != nil {
		t.Fatal(err)
	}

	d := NewGameData("progress", 1, 0, 0, 0)
	if err := e.AddGameData(d); err != nil {
		t.Fatal(err)
	}
	d.SetInt(1, 5)
	if err := e.SaveGameData("progress"); err != nil {
		t.Fatal(err)
	}
	d.SetInt(1, 9)
	if err := e.RestoreGameData("progress"); err != nil {
		t.Fatal(err)
	}
	if d.Int(1) != 5 {
		t.Errorf("restored int = %d, want 5", d.Int(1))
	}
	if err := e.SaveGameData("other"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unregistered save err = %v", err)
	}
}

func TestSaveWithoutDatabase(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	e.AddGameData(NewGameData("x", 1, 0, 0, 0))
	if err := e.SaveGameData("x"); !errors.Is(err, ErrResource) {
		t.Errorf("err = %v, want ErrResource", err)
	}
}
