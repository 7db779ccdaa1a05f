// Package seed preloads store state from files at startup.
package seed

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/klauspost/pgzip"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/discount"
)

const (
	bloomCapacity = 100_000
	bloomFPR      = 1e-6
	maxCodeLen    = 32
	progressEvery = 10_000
)

// Result summarizes a seed run.
type Result struct {
	Loaded     int
	Duplicates int
	Rejected   int
}

// DiscountCodes streams a gzip-compressed file with one code per line and
// issues each code as an unused discount at discount.DefaultRate. Blank lines
// and lines starting with '#' are ignored. Repeats within the file are
// filtered by a bloom filter; codes already present in the registry are
// rejected by Issue. Both count as duplicates.
func DiscountCodes(ctx context.Context, path string, registry discount.Registry, now time.Time) (*Result, error) {
	lg := zctx.From(ctx).With(zap.String("path", path))

	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	res := &Result{}

	err := streamGzFile(ctx, path, func(line string) error {
		code := strings.TrimSpace(line)
		if code == "" || strings.HasPrefix(code, "#") {
			return nil
		}
		if len(code) > maxCodeLen || strings.ContainsAny(code, " \t") {
			res.Rejected++
			return nil
		}

		// Repeats within the file never reach the registry lock. A false
		// positive drops a code with probability bloomFPR.
		if seen.TestAndAddString(code) {
			res.Duplicates++
			return nil
		}

		switch err := registry.Issue(ctx, &discount.Code{
			Code:      code,
			Rate:      discount.DefaultRate,
			CreatedAt: now,
		}); {
		case err == nil:
			res.Loaded++
		case errors.Is(err, discount.ErrCodeExists):
			res.Duplicates++
		default:
			return errors.Wrapf(err, "issue %s", code)
		}

		if total := res.Loaded + res.Duplicates; total%progressEvery == 0 {
			lg.Info("Seeding discount codes", zap.Int("processed", total))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lg.Info("Discount codes seeded",
		zap.Int("loaded", res.Loaded),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("rejected", res.Rejected),
	)
	return res, nil
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
