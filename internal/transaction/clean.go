package transaction

import "context"

// Clean reclaims every implicitly-installed package with no remaining
// dependent (spec.md §4.8). It iterates to a fixed point: uninstalling
// one orphan can make another package an orphan in turn (a chain of
// implicit-only dependencies), so a single pass can under-reclaim.
func (e *Engine) Clean(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rows, err := e.Catalog.List(ctx)
		if err != nil {
			return err
		}

		var orphans []string
		for _, row := range rows {
			if !row.Installed || row.IsExplicit {
				continue
			}
			required, err := e.Catalog.Required(ctx, row.Name)
			if err != nil {
				return err
			}
			if !required {
				orphans = append(orphans, row.Name)
			}
		}
		if len(orphans) == 0 {
			return nil
		}

		for _, name := range orphans {
			if err := e.Uninstall(ctx, name, true); err != nil {
				return err
			}
		}
	}
}
