package documentscmd

import "testing"

func TestProcessFileCommandValidateRequiresPath(t *testing.T) {
	cmd := ProcessFileCommand{}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when path missing")
	}

	cmd.Path = "content/post.md"
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error when path provided: %v", err)
	}
}

func TestProcessDirectoryCommandValidate(t *testing.T) {
	cmd := ProcessDirectoryCommand{}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when directory missing")
	}

	cmd.Directory = "content"
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error when directory provided: %v", err)
	}

	cmd.Pattern = "[.md"
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected malformed pattern to fail")
	}
}

func TestMessageTypes(t *testing.T) {
	if (ProcessFileCommand{}).Type() != "metagen.documents.process_file" {
		t.Fatalf("unexpected file message type")
	}
	if (ProcessDirectoryCommand{}).Type() != "metagen.documents.process_directory" {
		t.Fatalf("unexpected directory message type")
	}
}
