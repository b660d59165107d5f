package annotate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInstructionFromFile_Fallback(t *testing.T) {
	instruction, err := InstructionFromFile("", "the default")
	if err != nil {
		t.Fatalf("InstructionFromFile failed: %v", err)
	}
	if instruction != "the default" {
		t.Errorf("instruction = %q", instruction)
	}
}

func TestInstructionFromFile_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("custom instruction\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	instruction, err := InstructionFromFile(path, "the default")
	if err != nil {
		t.Fatalf("InstructionFromFile failed: %v", err)
	}
	if instruction != "custom instruction" {
		t.Errorf("instruction = %q", instruction)
	}
}

func TestInstructionFromFile_MissingFile(t *testing.T) {
	if _, err := InstructionFromFile(filepath.Join(t.TempDir(), "absent.txt"), "fallback"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestInstructionFromFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := InstructionFromFile(path, "fallback"); err == nil {
		t.Fatal("expected error for empty instruction file")
	}
}
