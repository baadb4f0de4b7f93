// Package fixture reads and writes the golden snapshot tree:
//
//	snapshots/<caseName>/<provider>/request.json
//	snapshots/<caseName>/<provider>/response.json
//	snapshots/<caseName>/<provider>/response-streaming.json
//	snapshots/<caseName>/<provider>/followup-request.json
//	snapshots/<caseName>/<provider>/followup-response.json
//	snapshots/<caseName>/<provider>/followup-response-streaming.json
//	snapshots/<caseName>/<provider>/error.json
//
// The tree is read-only during validation.
package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/gatewaylab/conform/pkg/models"
	"github.com/gatewaylab/conform/utils"
)

const (
	requestFile           = "request.json"
	responseFile          = "response.json"
	responseStreamFile    = "response-streaming.json"
	followupRequestFile   = "followup-request.json"
	followupResponseFile  = "followup-response.json"
	followupRespStream    = "followup-response-streaming.json"
	expectationFile       = "error.json"
)

type SnapshotDB struct {
	logger *zap.Logger
	path   string
}

func New(logger *zap.Logger, path string) *SnapshotDB {
	return &SnapshotDB{logger: logger, path: path}
}

func (db *SnapshotDB) caseDir(caseName, provider string) string {
	return filepath.Join(db.path, caseName, provider)
}

func (db *SnapshotDB) load(caseName, provider, name string) (any, error) {
	path := filepath.Join(db.caseDir(caseName, provider), name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("snapshot not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %v", path, err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("snapshot %s is not valid JSON: %v", path, err)
	}
	return v, nil
}

func (db *SnapshotDB) LoadRequest(caseName, provider string) (any, error) {
	return db.load(caseName, provider, requestFile)
}

// LoadResponse returns the golden response for the pair, selecting the
// streaming variant when stream is set. A missing snapshot is an error, not
// a skip.
func (db *SnapshotDB) LoadResponse(caseName, provider string, stream bool) (any, error) {
	name := responseFile
	if stream {
		name = responseStreamFile
	}
	return db.load(caseName, provider, name)
}

func (db *SnapshotDB) LoadFollowUpRequest(caseName, provider string) (any, error) {
	return db.load(caseName, provider, followupRequestFile)
}

func (db *SnapshotDB) LoadFollowUpResponse(caseName, provider string, stream bool) (any, error) {
	name := followupResponseFile
	if stream {
		name = followupRespStream
	}
	return db.load(caseName, provider, name)
}

// HasFollowUp reports whether the pair carries a second conversation turn.
func (db *SnapshotDB) HasFollowUp(caseName, provider string) bool {
	_, err := os.Stat(filepath.Join(db.caseDir(caseName, provider), followupRequestFile))
	return err == nil
}

// LoadExpectation returns the declarative expectation stored next to the
// snapshots, or nil when the pair has none.
func (db *SnapshotDB) LoadExpectation(caseName, provider string) (*models.Expectation, error) {
	path := filepath.Join(db.caseDir(caseName, provider), expectationFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read expectation %s: %v", path, err)
	}
	var exp models.Expectation
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("expectation %s is not valid JSON: %v", path, err)
	}
	return &exp, nil
}

// WriteSnapshot stores a captured document; used when fixtures are prepared,
// never during validation.
func (db *SnapshotDB) WriteSnapshot(caseName, provider, name string, value any) error {
	dir := db.caseDir(caseName, provider)
	if err := os.MkdirAll(dir, 0755); err != nil {
		utils.LogError(db.logger, err, "failed to create the snapshot directory", zap.String("dir", dir))
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %s: %v", name, err)
	}
	return os.WriteFile(filepath.Join(dir, name), append(data, '\n'), 0644)
}
