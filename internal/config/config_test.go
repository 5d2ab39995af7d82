package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PEERBLIND_CONFIG", "")
	t.Setenv("PEERBLIND_PROPOSALS_DIR", "")
	t.Setenv("PEERBLIND_BRIEF_REVIEW_PROBABILITY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProposalsDir != "./proposals" {
		t.Fatalf("expected default proposals dir, got %q", cfg.ProposalsDir)
	}
	if cfg.BriefReviewProbability != 0.25 {
		t.Fatalf("expected default brief probability 0.25, got %v", cfg.BriefReviewProbability)
	}
	if cfg.StudentPrefix != "S" || cfg.ProposalPrefix != "P" || cfg.StartIndex != 1 {
		t.Fatalf("unexpected ID defaults: %q %q %d", cfg.StudentPrefix, cfg.ProposalPrefix, cfg.StartIndex)
	}
	if cfg.NATSSubject != "reviews.generate" {
		t.Fatalf("expected default nats subject, got %q", cfg.NATSSubject)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PEERBLIND_CONFIG", "")
	t.Setenv("PEERBLIND_PROPOSALS_DIR", "/data/proposals")
	t.Setenv("PEERBLIND_START_INDEX", "7")
	t.Setenv("PEERBLIND_BRIEF_REVIEW_PROBABILITY", "0.5")
	t.Setenv("PEERBLIND_CHAT_MODEL_1", "custom-model")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProposalsDir != "/data/proposals" {
		t.Fatalf("expected override proposals dir, got %q", cfg.ProposalsDir)
	}
	if cfg.StartIndex != 7 {
		t.Fatalf("expected start index 7, got %d", cfg.StartIndex)
	}
	if cfg.BriefReviewProbability != 0.5 {
		t.Fatalf("expected brief probability 0.5, got %v", cfg.BriefReviewProbability)
	}
	if cfg.ChatModel1 != "custom-model" {
		t.Fatalf("expected model override, got %q", cfg.ChatModel1)
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("PEERBLIND_CONFIG", "")
	t.Setenv("PEERBLIND_START_INDEX", "first")
	t.Setenv("PEERBLIND_BRIEF_REVIEW_PROBABILITY", "sometimes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StartIndex != 1 {
		t.Fatalf("expected fallback start index, got %d", cfg.StartIndex)
	}
	if cfg.BriefReviewProbability != 0.25 {
		t.Fatalf("expected fallback brief probability, got %v", cfg.BriefReviewProbability)
	}
}

func TestLoadWithFileOverlayAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peerblind.yaml")
	content := "proposals_dir: /yaml/proposals\nreviews_dir: /yaml/reviews\nstart_index: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("PEERBLIND_PROPOSALS_DIR", "/env/proposals")
	t.Setenv("PEERBLIND_REVIEWS_DIR", "")
	t.Setenv("PEERBLIND_START_INDEX", "")

	cfg, err := LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile: %v", err)
	}
	if cfg.ProposalsDir != "/env/proposals" {
		t.Fatalf("env should win over file, got %q", cfg.ProposalsDir)
	}
	if cfg.ReviewsDir != "/yaml/reviews" {
		t.Fatalf("file should win over defaults, got %q", cfg.ReviewsDir)
	}
	if cfg.StartIndex != 3 {
		t.Fatalf("expected start index 3 from file, got %d", cfg.StartIndex)
	}
}

func TestLoadWithMissingFile(t *testing.T) {
	if _, err := LoadWithFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
