package database

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const backupTimeLayout = "20060102_150405"

// Backup writes a consistent snapshot of the live database into the backups
// directory next to it and compresses the snapshot. VACUUM INTO works on a
// live WAL database, so the API stays available while it runs.
func (d *Database) Backup(ctx context.Context) error {
	dir := d.backupDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	snapshot := filepath.Join(dir, fmt.Sprintf("%s_pvcalc.db", time.Now().Format(backupTimeLayout)))
	if _, err := d.write.ExecContext(ctx, "VACUUM INTO ?", snapshot); err != nil {
		return fmt.Errorf("vacuuming database into '%s': %w", snapshot, err)
	}

	zipPath, err := compressSnapshot(snapshot, filepath.Base(d.path))
	if err != nil {
		return err
	}

	// The flat copy is redundant once the archive exists.
	if err := os.Remove(snapshot); err != nil {
		d.logger.Warn("could not remove backup snapshot after compression", slog.Any("error", err))
	}

	d.logger.Info("database backup complete", slog.String("filename", zipPath))
	return nil
}

// compressSnapshot zips the snapshot in place and returns the archive path.
// entryName is the filename the database should be restored to.
func compressSnapshot(snapshot, entryName string) (string, error) {
	src, err := os.Open(snapshot)
	if err != nil {
		return "", fmt.Errorf("open backup snapshot: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("stat backup snapshot: %w", err)
	}

	zipPath := snapshot + ".zip"
	dest, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("create zip file: %w", err)
	}
	defer dest.Close()

	zw := zip.NewWriter(dest)
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return "", fmt.Errorf("create zip header: %w", err)
	}
	header.Name = entryName
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return "", fmt.Errorf("create zip file entry: %w", err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return "", fmt.Errorf("write database to zip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalize zip file: %w", err)
	}

	return zipPath, nil
}

// PurgeBackups deletes archives older than the retention window. Age comes
// from the timestamp in the filename rather than file metadata, so copied
// or restored archives keep their original age.
func (d *Database) PurgeBackups(ctx context.Context, retentionDays int) error {
	if retentionDays < 1 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	dir := d.backupDir()
	d.logger.Debug("purging old backups", slog.String("dir", dir))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read backup directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		stamp, _, found := strings.Cut(name, "_pvcalc")
		if entry.IsDir() || !found {
			d.logger.Debug("not a backup file, skipping", slog.String("filename", name))
			continue
		}
		taken, err := time.Parse(backupTimeLayout, stamp)
		if err != nil {
			d.logger.Debug("unparsable backup timestamp, skipping", slog.String("filename", name))
			continue
		}
		if taken.Before(cutoff) {
			path := filepath.Join(dir, name)
			d.logger.Debug("deleting old backup", slog.String("path", path))
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("remove old backup '%s': %w", path, err)
			}
		}
	}

	d.logger.Info("backup purge complete")
	return nil
}

func (d *Database) backupDir() string {
	return filepath.Join(filepath.Dir(d.path), "backups")
}
