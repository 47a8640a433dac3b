package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-feedback/param"
	"github.com/cwbudde/algo-feedback/reactive"
)

// Version is the document format written by [Save].
const Version = 1

// ErrUnsupportedVersion is returned by [Load] for documents newer than
// [Version].
var ErrUnsupportedVersion = errors.New("settings: unsupported document version")

// Document is a complete session.
type Document struct {
	Version    int             `json:"version"`
	Params     param.Snapshot  `json:"params"`
	Audio      reactive.Record `json:"audio"`
	MIDIDevice string          `json:"midiDevice,omitempty"`
}

// Report lists what [Apply] skipped.
type Report struct {
	SkippedParams   []string
	SkippedMappings []int
}

// Empty reports whether nothing was skipped.
func (r Report) Empty() bool {
	return len(r.SkippedParams) == 0 && len(r.SkippedMappings) == 0
}

// Capture builds a document from the store and, when m is not nil, the
// audio manager.
func Capture(store *param.Store, m *reactive.Manager) Document {
	doc := Document{
		Version: Version,
		Params:  store.Export(),
	}
	if m != nil {
		doc.Audio = m.Export()
	}
	return doc
}

// Apply loads doc into the store and, when m is not nil, the audio manager.
// A document without an audio section leaves the manager untouched.
func Apply(doc Document, store *param.Store, m *reactive.Manager) Report {
	rep := Report{SkippedParams: store.Import(doc.Params)}
	if m != nil && doc.Audio.NumBands > 0 {
		rep.SkippedMappings = m.Import(doc.Audio)
	}
	return rep
}

// Save writes doc as indented JSON.
func Save(w io.Writer, doc Document) error {
	if doc.Version == 0 {
		doc.Version = Version
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	return nil
}

// Load decodes a document. Documents without a version are read as
// version 1.
func Load(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("settings: decode: %w", err)
	}
	if doc.Version == 0 {
		doc.Version = Version
	}
	if doc.Version > Version {
		return Document{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	return doc, nil
}

// SaveFile writes doc to path through a temporary file in the same
// directory, so a crash never leaves a truncated document behind.
func SaveFile(path string, doc Document) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Save(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

// LoadFile reads the document at path.
func LoadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("settings: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Restore loads path into the store and manager. A missing file is not an
// error: the session keeps its defaults. Skipped entries are logged.
func Restore(path string, store *param.Store, m *reactive.Manager, log logrus.FieldLogger) (Document, error) {
	if log == nil {
		log = logrus.StandardLogger().WithField("component", "settings")
	}

	doc, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.WithFields(logrus.Fields{
			"function": "Restore",
			"path":     path,
		}).Info("no settings file, using defaults")
		return Document{Version: Version}, nil
	}
	if err != nil {
		return Document{}, err
	}

	rep := Apply(doc, store, m)
	entry := log.WithFields(logrus.Fields{
		"function":        "Restore",
		"path":            path,
		"skippedParams":   len(rep.SkippedParams),
		"skippedMappings": len(rep.SkippedMappings),
	})
	if rep.Empty() {
		entry.Info("settings loaded")
	} else {
		entry.Warn("settings loaded with skipped entries")
	}
	return doc, nil
}
