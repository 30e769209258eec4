package catalog

import (
	"context"
	"regexp"

	"github.com/forgepm/forge/internal/domain"
)

// Search returns packages whose name matches pattern, case-insensitively.
func (c *Catalog) Search(ctx context.Context, pattern string) ([]PackageRow, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, domain.ErrInvalidName{Name: pattern, Reason: "not a valid regular expression: " + err.Error()}
	}

	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []PackageRow
	for _, p := range all {
		if re.MatchString(p.Name) {
			out = append(out, p)
		}
	}
	return out, nil
}
