package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML snapshot. Sections present in the file replace the
// embedded ones; absent sections keep the embedded data.
func LoadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read dataset %s: %w", path, err)
	}
	snap, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Snapshot{}, fmt.Errorf("dataset %s: %w", path, err)
	}
	return snap, nil
}

// Decode overlays a YAML document on top of Default and validates the result.
func Decode(r io.Reader) (Snapshot, error) {
	snap := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&snap); err != nil && !errors.Is(err, io.EOF) {
		return Snapshot{}, fmt.Errorf("decode yaml: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	if err := snap.canonicalize(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// canonicalize rewrites every record date in DateLayout form.
func (s *Snapshot) canonicalize() error {
	var err error
	if s.Demographics, err = CanonicalSignups(s.Demographics); err != nil {
		return err
	}
	if s.DailySignups, err = CanonicalSignups(s.DailySignups); err != nil {
		return err
	}
	for i := range s.AgeBuckets {
		if s.AgeBuckets[i].Date, err = CanonicalDay(s.AgeBuckets[i].Date); err != nil {
			return err
		}
	}
	for i := range s.PaidDays {
		if s.PaidDays[i].Date, err = CanonicalDay(s.PaidDays[i].Date); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects records that cannot be aggregated at all: unparseable
// dates, empty labels and negative counts. Gender sub-counts and the
// pre-computed payment averages are not cross-checked here.
func (s Snapshot) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	checkSignups := func(section string, rows []Signup) {
		for i, row := range rows {
			if _, err := ParseDay(row.Date); err != nil {
				add("%s[%d]: %v", section, i, err)
			}
			if strings.TrimSpace(row.Source) == "" {
				add("%s[%d]: empty source", section, i)
			}
			if row.Users < 0 || row.Male < 0 || row.Female < 0 || row.Unknown < 0 {
				add("%s[%d]: negative count", section, i)
			}
		}
	}
	checkSignups("demographics", s.Demographics)
	checkSignups("daily_signups", s.DailySignups)

	for i, row := range s.AgeBuckets {
		if _, err := ParseDay(row.Date); err != nil {
			add("age_buckets[%d]: %v", i, err)
		}
		if row.Bucket == "" || row.Source == "" {
			add("age_buckets[%d]: empty source or bucket", i)
		}
		if row.Users < 0 {
			add("age_buckets[%d]: negative count", i)
		}
	}
	for i, row := range s.PaidDays {
		if _, err := ParseDay(row.Date); err != nil {
			add("paid_days[%d]: %v", i, err)
		}
		if row.PaidUsers < 0 {
			add("paid_days[%d]: negative count", i)
		}
	}
	for i, row := range s.Regions {
		if strings.TrimSpace(row.Region) == "" {
			add("regions[%d]: empty region", i)
		}
		if row.Payers < 0 || row.Payments < 0 || row.Revenue < 0 {
			add("regions[%d]: negative value", i)
		}
	}

	if len(problems) > 0 {
		return errors.New("invalid dataset: " + strings.Join(problems, "; "))
	}
	return nil
}
