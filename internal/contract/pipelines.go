package contract

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// pipelineFile is the wrapper form of a pipeline export, as produced by
// 'GET /projects/:id/pipelines' dumps that keep the payload under a key.
type pipelineFile struct {
	Pipelines []schema.PipelineRecord `json:"pipelines"`
}

// LoadPipelineRecords reads CI pipeline runs from a JSON file. Both a bare
// array and a {"pipelines": [...]} wrapper are accepted.
func LoadPipelineRecords(path string) ([]schema.PipelineRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read pipelines file: %w", err)
	}

	var records []schema.PipelineRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var wrapped pipelineFile
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("cannot parse pipelines file %q: %w", path, err)
	}
	return wrapped.Pipelines, nil
}
