package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/qbank/internal/extract"
)

// SnapshotVersion is the current serialized snapshot format version.
const SnapshotVersion = 1

// snapshotFile is the on-disk snapshot layout. Only the question
// records are persisted; the inverted indexes are derived state and are
// rebuilt on load, which keeps the format small and guarantees a loaded
// index is structurally identical to a freshly built one.
type snapshotFile struct {
	Version   int                `json:"version"`
	Questions []extract.Question `json:"questions"`
}

// snapshotSchema validates untrusted snapshot files before they are
// trusted as corpus state.
const snapshotSchema = `{
  "type": "object",
  "required": ["version", "questions"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "category", "prompt", "answer"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "number": {"type": "integer"},
          "category": {"type": "string", "minLength": 1},
          "prompt": {"type": "string", "minLength": 1},
          "answer": {"type": "string"},
          "explanation": {"type": "string"},
          "snippets": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["code"],
              "properties": {
                "language": {"type": "string"},
                "code": {"type": "string"}
              }
            }
          },
          "tags": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

var compiledSnapshotSchema = mustCompileSnapshotSchema()

func mustCompileSnapshotSchema() *jsonschema.Schema {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(snapshotSchema)))
	if err != nil {
		panic(fmt.Sprintf("parse snapshot schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://snapshot.json", parsed); err != nil {
		panic(fmt.Sprintf("add snapshot schema: %v", err))
	}
	compiled, err := c.Compile("schema://snapshot.json")
	if err != nil {
		panic(fmt.Sprintf("compile snapshot schema: %v", err))
	}
	return compiled
}

// Snapshot serializes the index to its JSON snapshot form.
func (idx *Index) Snapshot() ([]byte, error) {
	file := snapshotFile{
		Version:   SnapshotVersion,
		Questions: idx.Questions(),
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// FromSnapshot validates and loads a serialized snapshot, rebuilding
// all derived indexes. A snapshot that fails validation is rejected; it
// never produces a partial index.
func FromSnapshot(data []byte) (*Index, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot is not valid JSON: %w", err)
	}
	if err := compiledSnapshotSchema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("snapshot schema validation: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if file.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (want %d)", file.Version, SnapshotVersion)
	}

	return Build(file.Questions)
}
