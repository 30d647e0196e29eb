// ABOUTME: Manages the current-document pointer and recent uploads list
// ABOUTME: Stores document identifiers in the XDG config directory

package recentdocs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// MaxRecentDocs is the maximum number of recent uploads to keep
const MaxRecentDocs = 5

// Entry records one uploaded document
type Entry struct {
	DocumentID string    `json:"documentId"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// RecentDocs manages the current-document pointer and the recent uploads
// list, so a later invocation can pick up where the last one left off.
type RecentDocs struct {
	configDir string
	docs      []Entry
	loaded    bool
}

type recentData struct {
	Current string  `json:"current"`
	Docs    []Entry `json:"docs"`
}

// New creates a new RecentDocs manager with the given config directory
func New(configDir string) *RecentDocs {
	return &RecentDocs{configDir: configDir}
}

// configFile returns the path to the recent documents JSON
func (rd *RecentDocs) configFile() string {
	return filepath.Join(rd.configDir, "recent.json")
}

// Load reads the recent documents list from disk
func (rd *RecentDocs) Load() ([]Entry, error) {
	rd.loaded = true

	data, err := os.ReadFile(rd.configFile())
	if os.IsNotExist(err) {
		rd.docs = []Entry{}
		return rd.docs, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		// Invalid JSON, start fresh
		rd.docs = []Entry{}
		return rd.docs, nil
	}

	rd.docs = recent.Docs
	return rd.docs, nil
}

// Add records an upload as the current document and moves it to the front of
// the recent list.
func (rd *RecentDocs) Add(entry Entry) error {
	if !rd.loaded {
		if _, err := rd.Load(); err != nil {
			rd.docs = []Entry{}
		}
	}

	newDocs := make([]Entry, 0, len(rd.docs)+1)
	newDocs = append(newDocs, entry)
	for _, d := range rd.docs {
		if d.DocumentID != entry.DocumentID {
			newDocs = append(newDocs, d)
		}
	}
	if len(newDocs) > MaxRecentDocs {
		newDocs = newDocs[:MaxRecentDocs]
	}
	rd.docs = newDocs

	return rd.save()
}

// Current returns the most recent upload, false when there is none
func (rd *RecentDocs) Current() (Entry, bool) {
	if !rd.loaded {
		rd.Load()
	}
	if len(rd.docs) == 0 {
		return Entry{}, false
	}
	return rd.docs[0], true
}

// List returns the recent uploads, most recent first
func (rd *RecentDocs) List() []Entry {
	if !rd.loaded {
		rd.Load()
	}
	return rd.docs
}

// Clear removes the pointer file. Used on logout so the next user does not
// inherit a document pointer.
func (rd *RecentDocs) Clear() error {
	rd.docs = nil
	rd.loaded = true
	if err := os.Remove(rd.configFile()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (rd *RecentDocs) save() error {
	if err := os.MkdirAll(rd.configDir, 0o755); err != nil {
		return err
	}

	current := ""
	if len(rd.docs) > 0 {
		current = rd.docs[0].DocumentID
	}
	data, err := json.MarshalIndent(recentData{Current: current, Docs: rd.docs}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(rd.configFile(), data, 0o644)
}
