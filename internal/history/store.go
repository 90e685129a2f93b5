package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"mailroom/backend/internal/models"
)

// Store is the durable, append-only message log, one ledger per room.
type Store interface {
	// Append adds one message to the room's ledger. Serialized per room;
	// once it returns the message is visible to all subsequent reads.
	Append(roomID string, msg models.PersistedMessage) error
	// Messages returns the room's messages in append order. A positive
	// limit returns only the most recent limit messages, still in
	// chronological order.
	Messages(roomID string, limit int) ([]models.PersistedMessage, error)
	// Count returns the total number of persisted messages.
	Count(roomID string) (int, error)
	// Metadata returns the room's read view, or nil when no ledger
	// exists on disk.
	Metadata(roomID string) (*models.RoomMetadata, error)
}

const (
	ledgerExt = ".json"
	tempExt   = ".tmp"
	// corruptedStamp names quarantined files down to the nanosecond so
	// repeated corruption of the same room never collides.
	corruptedStamp = "20060102_150405.000000000"
)

// FileStore keeps one JSON ledger file per room under a base directory.
// Writes go through a same-directory temp file and an atomic rename, so
// a crash mid-write leaves either the old or the new content, never a
// mix. Unreadable ledgers are renamed aside and treated as absent.
//
// One mutex per room id is created lazily and kept for the life of the
// process; the map grows with the number of distinct rooms ever touched.
type FileStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates the base directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	log.Printf("History store initialized at %s", dir)
	return &FileStore{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// lockFor returns the room's mutex, creating it on first access. Two
// different rooms never share a lock, so they never block each other.
func (s *FileStore) lockFor(roomID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[roomID] = l
	}
	return l
}

// sanitizeRoomID maps a caller-supplied room id onto a filesystem-safe
// name: anything outside letters, digits, '-' and '_' becomes '_', so
// arbitrary ids cannot escape the storage directory.
func sanitizeRoomID(roomID string) string {
	var b strings.Builder
	for _, r := range roomID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func (s *FileStore) path(roomID string) string {
	return filepath.Join(s.dir, sanitizeRoomID(roomID)+ledgerExt)
}

// load reads the room's ledger. It never fails: an absent file yields a
// fresh ledger, and a file that does not parse is renamed aside for
// forensics and likewise treated as absent. Callers never observe a
// difference between a new room and one recovered from corruption.
func (s *FileStore) load(roomID string) *models.Ledger {
	fresh := func() *models.Ledger {
		return &models.Ledger{
			RoomID:       roomID,
			CreatedAt:    time.Now().Format(time.RFC3339),
			Participants: []string{},
			Messages:     []models.PersistedMessage{},
		}
	}

	path := s.path(roomID)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARNING: failed to read ledger for room %s: %v", roomID, err)
		}
		return fresh()
	}

	var ledger models.Ledger
	if err := json.Unmarshal(raw, &ledger); err != nil {
		log.Printf("WARNING: corrupted ledger for room %s: %v", roomID, err)
		quarantine := strings.TrimSuffix(path, ledgerExt) +
			".corrupted." + time.Now().Format(corruptedStamp) + ledgerExt
		if renameErr := os.Rename(path, quarantine); renameErr != nil {
			log.Printf("WARNING: failed to quarantine ledger for room %s: %v", roomID, renameErr)
		} else {
			log.Printf("Renamed corrupted ledger to %s", quarantine)
		}
		return fresh()
	}
	return &ledger
}

// save writes the ledger through a temp file in the same directory and
// atomically renames it into place. The temp file is removed before any
// error surfaces.
func (s *FileStore) save(roomID string, ledger *models.Ledger) error {
	path := s.path(roomID)
	temp := path + tempExt

	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger for room %s: %w", roomID, err)
	}
	if err := os.WriteFile(temp, data, 0o644); err != nil {
		os.Remove(temp)
		return fmt.Errorf("stage ledger for room %s: %w", roomID, err)
	}
	if err := os.Rename(temp, path); err != nil {
		os.Remove(temp)
		return fmt.Errorf("commit ledger for room %s: %w", roomID, err)
	}
	return nil
}

// Append runs the full load-mutate-save cycle under the room's lock.
// Write failures propagate: silently losing a message is unacceptable.
func (s *FileStore) Append(roomID string, msg models.PersistedMessage) error {
	lock := s.lockFor(roomID)
	lock.Lock()
	defer lock.Unlock()

	ledger := s.load(roomID)

	seen := false
	for _, name := range ledger.Participants {
		if name == msg.SenderName {
			seen = true
			break
		}
	}
	if !seen {
		ledger.Participants = append(ledger.Participants, msg.SenderName)
	}
	ledger.Messages = append(ledger.Messages, msg)

	if err := s.save(roomID, ledger); err != nil {
		return err
	}
	return nil
}

func (s *FileStore) Messages(roomID string, limit int) ([]models.PersistedMessage, error) {
	lock := s.lockFor(roomID)
	lock.Lock()
	ledger := s.load(roomID)
	lock.Unlock()

	msgs := ledger.Messages
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func (s *FileStore) Count(roomID string) (int, error) {
	lock := s.lockFor(roomID)
	lock.Lock()
	ledger := s.load(roomID)
	lock.Unlock()
	return len(ledger.Messages), nil
}

func (s *FileStore) Metadata(roomID string) (*models.RoomMetadata, error) {
	if _, err := os.Stat(s.path(roomID)); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	lock := s.lockFor(roomID)
	lock.Lock()
	ledger := s.load(roomID)
	lock.Unlock()

	lastActivity := ledger.CreatedAt
	if n := len(ledger.Messages); n > 0 {
		lastActivity = ledger.Messages[n-1].Timestamp
	}
	return &models.RoomMetadata{
		RoomID:       roomID,
		CreatedAt:    ledger.CreatedAt,
		LastActivity: lastActivity,
		MessageCount: len(ledger.Messages),
		Participants: ledger.Participants,
		Active:       true, // liveness is overlaid by the coordinator
	}, nil
}
