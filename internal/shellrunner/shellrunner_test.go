package shellrunner

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gwm17/attpc-envoy/internal/message"
	"github.com/gwm17/attpc-envoy/internal/module"
)

// writeScript drops an executable shell script into dir/name that
// ignores its arguments and exits with the given code.
func writeScript(t *testing.T, dir, name string, exitCode int) {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "#!/bin/sh\nexit " + strconv.Itoa(exitCode) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("writing fake script: %v", err)
	}
}

func TestBackupConfigSuccess(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "backup_configs.sh", 0)
	r := NewRunner("sh", dir+"/", "/cfg", "/backup")

	if got := r.BackupConfig(context.Background(), "e20009", 5); got != StatusSuccess {
		t.Fatalf("BackupConfig = %s, want Success", got)
	}
}

func TestBackupConfigFailure(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "backup_configs.sh", 1)
	r := NewRunner("sh", dir+"/", "/cfg", "/backup")

	if got := r.BackupConfig(context.Background(), "e20009", 5); got != StatusFailure {
		t.Fatalf("BackupConfig = %s, want Failure", got)
	}
}

func TestBackupConfigCouldNotExecute(t *testing.T) {
	r := NewRunner("sh", "/no/such/dir/", "/cfg", "/backup")
	if got := r.BackupConfig(context.Background(), "e20009", 5); got != StatusCouldNotExecute {
		t.Fatalf("BackupConfig = %s, want CouldNotExecute", got)
	}
}

func TestMoveGrawFilesAllSucceed(t *testing.T) {
	dir := t.TempDir()
	// Every invocation exits 0, so the fan-out folds to Success; the
	// "any failure -> Failure" fold is covered by TestMoveGrawFilesAllFail.
	writeScript(t, dir, "move_graw.sh", 0)
	r := NewRunner("sh", dir+"/", "/cfg", "/backup")
	fleet := module.FleetConfig{NumModules: 4, MutantID: 3, BaseAddress: "192.168.1"}
	surveyors := []message.SurveyorResponse{
		{Location: "/mnt/data0"},
		{Location: "/mnt/data1"},
		{Location: "/mnt/data2"},
	}

	if got := r.MoveGrawFiles(context.Background(), fleet, surveyors, "e20009", 5); got != StatusSuccess {
		t.Fatalf("MoveGrawFiles = %s, want Success", got)
	}
}

func TestMoveGrawFilesAllFail(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "move_graw.sh", 1)
	r := NewRunner("sh", dir+"/", "/cfg", "/backup")
	fleet := module.FleetConfig{NumModules: 2, MutantID: 1, BaseAddress: "192.168.1"}
	surveyors := []message.SurveyorResponse{{Location: "/mnt/data0"}}

	if got := r.MoveGrawFiles(context.Background(), fleet, surveyors, "e20009", 5); got != StatusFailure {
		t.Fatalf("MoveGrawFiles = %s, want Failure", got)
	}
}

func TestCheckRunExistsEmptySurveyorStatus(t *testing.T) {
	r := NewRunner("sh", "/scripts/", "/cfg", "/backup")
	fleet := module.FleetConfig{NumModules: 2, MutantID: 1, BaseAddress: "192.168.1"}
	if got := r.CheckRunExists(context.Background(), fleet, nil, "e20009", 5); got != StatusCouldNotExecute {
		t.Fatalf("CheckRunExists = %s, want CouldNotExecute", got)
	}
}
