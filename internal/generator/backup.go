package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// backupInput renames input out of the way when the index would overwrite it.
// It returns the backup path, or "" when no backup was needed.
func (g *Generator) backupInput(input string) (string, error) {
	inInfo, err := os.Stat(input)
	if err != nil {
		return "", nil
	}
	outInfo, err := os.Stat(filepath.Join(g.cfg.OutputDir, IndexFile))
	if err != nil || !os.SameFile(inInfo, outInfo) {
		return "", nil
	}

	backup, err := g.backupName(input)
	if err != nil {
		return "", err
	}
	if err := os.Rename(input, backup); err != nil {
		return "", fmt.Errorf("backup %s: %w", input, err)
	}

	g.logger.Info("Backed up original sitemap", "from", input, "to", backup)
	return backup, nil
}

// backupName picks sitemap_backup_YYYYMMDD.xml next to path, adding the time
// and then a counter when that name is taken
func (g *Generator) backupName(path string) (string, error) {
	now := g.now()
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)

	base := filepath.Join(dir, fmt.Sprintf("%s_backup_%s", stem, now.Format("20060102")))
	candidates := []string{
		base + ext,
		base + "-" + now.Format("150405") + ext,
	}
	for i := 2; i < 100; i++ {
		candidates = append(candidates, fmt.Sprintf("%s-%s-%d%s", base, now.Format("150405"), i, ext))
	}

	for _, c := range candidates {
		if _, err := os.Lstat(c); errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
	}
	return "", fmt.Errorf("no free backup name for %s", path)
}
