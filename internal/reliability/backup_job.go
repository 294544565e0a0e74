// Package reliability keeps the service's databases healthy and backed up.
package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/database"
)

const (
	backupPrefix          = "advisorpulse-backup-"
	backupSuffix          = ".tar.gz"
	backupTimestampLayout = "2006-01-02-150405"
	metadataFilename      = "backup-metadata.json"

	// minBackupsToKeep survive rotation regardless of age.
	minBackupsToKeep = 3
)

// BackupMetadata is written into every archive next to the database copies.
type BackupMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Databases []DatabaseMetadata `json:"databases"`
}

// DatabaseMetadata describes one database copy in an archive.
type DatabaseMetadata struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// BackupInfo is a backup found in the object store.
type BackupInfo struct {
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
}

// BackupJob copies every database with VACUUM INTO, packs the copies into a
// tar.gz archive, uploads it and rotates old archives.
type BackupJob struct {
	databases     []*database.DB
	store         ObjectStore
	stagingRoot   string
	retentionDays int
	timeout       time.Duration
	now           func() time.Time
	log           zerolog.Logger
}

// NewBackupJob creates a backup job. Staging directories are created under
// dataDir and removed after each run. retentionDays of 0 keeps every backup.
func NewBackupJob(databases []*database.DB, store ObjectStore, dataDir string, retentionDays int) *BackupJob {
	return &BackupJob{
		databases:     databases,
		store:         store,
		stagingRoot:   filepath.Join(dataDir, "backup-staging"),
		retentionDays: retentionDays,
		timeout:       30 * time.Minute,
		now:           time.Now,
		log:           zerolog.Nop(),
	}
}

// SetLogger sets the logger for the job
func (j *BackupJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "database_backup"
}

// Run creates and uploads a backup, then rotates old ones. A failed rotation
// is logged but does not fail the run.
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	key, err := j.CreateAndUpload(ctx)
	if err != nil {
		return err
	}

	deleted, err := j.Rotate(ctx)
	if err != nil {
		j.log.Warn().Err(err).Msg("Backup rotation failed")
	}

	j.log.Info().Str("key", key).Int("rotated", deleted).Msg("Backup completed")
	return nil
}

// CreateAndUpload builds an archive of all databases and uploads it. It
// returns the object key.
func (j *BackupJob) CreateAndUpload(ctx context.Context) (string, error) {
	start := j.now()

	stagingDir := filepath.Join(j.stagingRoot, uuid.NewString())
	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	metadata := BackupMetadata{
		ID:        uuid.NewString(),
		Timestamp: start.UTC(),
		Databases: make([]DatabaseMetadata, 0, len(j.databases)),
	}

	files := make([]string, 0, len(j.databases)+1)
	for _, db := range j.databases {
		filename := db.Name() + ".db"
		path := filepath.Join(stagingDir, filename)

		if err := db.VacuumInto(ctx, path); err != nil {
			return "", fmt.Errorf("failed to copy %s: %w", db.Name(), err)
		}

		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("failed to stat %s copy: %w", db.Name(), err)
		}
		checksum, err := fileChecksum(path)
		if err != nil {
			return "", fmt.Errorf("failed to checksum %s copy: %w", db.Name(), err)
		}

		metadata.Databases = append(metadata.Databases, DatabaseMetadata{
			Name:      db.Name(),
			Filename:  filename,
			SizeBytes: info.Size(),
			Checksum:  checksum,
		})
		files = append(files, filename)
	}

	if err := writeMetadata(filepath.Join(stagingDir, metadataFilename), metadata); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}
	files = append(files, metadataFilename)

	key := BackupKey(start)
	archivePath := filepath.Join(stagingDir, key)
	if err := createArchive(archivePath, stagingDir, files); err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	archive, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	if err := j.store.Upload(ctx, key, archive); err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	j.log.Info().
		Str("key", key).
		Int("databases", len(metadata.Databases)).
		Dur("duration", j.now().Sub(start)).
		Msg("Backup uploaded")

	return key, nil
}

// ListBackups returns stored backups newest first. Objects that do not follow
// the backup naming scheme are ignored.
func (j *BackupJob) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	objects, err := j.store.List(ctx, backupPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	backups := make([]BackupInfo, 0, len(objects))
	for _, obj := range objects {
		ts, ok := ParseBackupKey(obj.Key)
		if !ok {
			j.log.Debug().Str("key", obj.Key).Msg("Ignoring unrecognized object")
			continue
		}
		backups = append(backups, BackupInfo{Key: obj.Key, Timestamp: ts, SizeBytes: obj.SizeBytes})
	}

	sort.Slice(backups, func(a, b int) bool {
		return backups[a].Timestamp.After(backups[b].Timestamp)
	})
	return backups, nil
}

// Rotate deletes backups older than the retention period, always keeping the
// newest minBackupsToKeep. It returns the number of deleted backups.
func (j *BackupJob) Rotate(ctx context.Context) (int, error) {
	if j.retentionDays <= 0 {
		return 0, nil
	}

	backups, err := j.ListBackups(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := j.now().AddDate(0, 0, -j.retentionDays)
	deleted := 0
	for i, b := range backups {
		if i < minBackupsToKeep || !b.Timestamp.Before(cutoff) {
			continue
		}
		if err := j.store.Delete(ctx, b.Key); err != nil {
			j.log.Error().Err(err).Str("key", b.Key).Msg("Failed to delete old backup")
			continue
		}
		j.log.Info().Str("key", b.Key).Time("timestamp", b.Timestamp).Msg("Deleted old backup")
		deleted++
	}
	return deleted, nil
}

// BackupKey names the archive created at t.
func BackupKey(t time.Time) string {
	return backupPrefix + t.UTC().Format(backupTimestampLayout) + backupSuffix
}

// ParseBackupKey extracts the creation time from a backup key.
func ParseBackupKey(key string) (time.Time, bool) {
	if !strings.HasPrefix(key, backupPrefix) || !strings.HasSuffix(key, backupSuffix) {
		return time.Time{}, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(key, backupPrefix), backupSuffix)
	ts, err := time.Parse(backupTimestampLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func writeMetadata(path string, metadata BackupMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

// createArchive writes files from sourceDir into a tar.gz at archivePath.
func createArchive(archivePath, sourceDir string, files []string) (err error) {
	out, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	for _, name := range files {
		if err := addFileToArchive(tw, filepath.Join(sourceDir, name), name); err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

func addFileToArchive(tw *tar.Writer, path, nameInArchive string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    int64(info.Mode().Perm()),
		ModTime: info.ModTime(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	_, err = io.Copy(tw, file)
	return err
}
