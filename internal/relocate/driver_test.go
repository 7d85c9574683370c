package relocate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"backupphotos/internal/classify"
	"backupphotos/internal/fileutil"
	"backupphotos/internal/layout"
	"backupphotos/internal/manifest"
	"backupphotos/internal/services"
	"backupphotos/internal/testsupport"
)

type mapLocator map[string]string

func (m mapLocator) Path(id string) (string, bool) {
	p, ok := m[id]
	return p, ok
}

type fixture struct {
	backup  string
	out     string
	locator mapLocator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	return &fixture{
		backup:  filepath.Join(base, "backup"),
		out:     filepath.Join(base, "Photos"),
		locator: mapLocator{},
	}
}

func (f *fixture) store(t *testing.T, id string) string {
	t.Helper()
	path := testsupport.WriteBackupFile(t, f.backup, id, 16)
	f.locator[id] = path
	return path
}

func (f *fixture) driver(l layout.Layout, policy Policy) *Driver {
	return &Driver{
		Resolver: layout.Resolver{Root: f.out, Layout: l, ImportMarker: "IMPRT"},
		Locator:  f.locator,
		Policy:   policy,
		Rules: classify.Rules{
			Categories: []classify.CategoryRule{
				{Category: classify.CameraRoll, Enabled: true, Filters: []string{"Media/DCIM/"}},
				{Category: classify.SMSAttachment, Enabled: true, Filters: []string{"Library/SMS/Attachments/"}},
			},
		},
	}
}

func entry(id, rel string, category classify.Category, paired bool) classify.Entry {
	return classify.Entry{
		Entry:    manifest.Entry{ID: id, RelativePath: rel},
		Category: category,
		Paired:   paired,
	}
}

func assertFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected file %s: %v", path, err)
	}
	if !info.Mode().IsRegular() {
		t.Fatalf("%s is not a regular file", path)
	}
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, got %v", path, err)
	}
}

func TestRunMovesUnpairedEntries(t *testing.T) {
	f := newFixture(t)
	src := f.store(t, "aa01")
	f.store(t, "bb02")

	d := f.driver(layout.Type, Policy{SavePVT: true, SaveJPG: true, SaveMOV: true})
	report, err := d.Run(context.Background(), []classify.Entry{
		entry("aa01", "Media/DCIM/100APPLE/IMG_0001.HEIC", classify.CameraRoll, false),
		entry("bb02", "Library/SMS/Attachments/0a/10/IMG_0002.JPG", classify.SMSAttachment, false),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Relocated) != 2 || report.Len() != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	assertMissing(t, src)
	assertFile(t, filepath.Join(f.out, "CameraRoll", "Media", "DCIM", "100APPLE", "IMG_0001.HEIC"))
	assertFile(t, filepath.Join(f.out, "iMessage", "Library", "SMS", "Attachments", "0a", "10", "IMG_0002.JPG"))
	if report.Relocated[0].Kind != KindRelocated {
		t.Fatalf("expected relocated kind, got %s", report.Relocated[0].Kind)
	}
}

// A paired still whose standalone type is declined lands only inside the
// wrapper; the video lands in the wrapper and keeps a standalone copy.
func TestRunLivePairWrapperWithoutStandaloneStill(t *testing.T) {
	f := newFixture(t)
	f.store(t, "still")
	f.store(t, "motion")

	d := f.driver(layout.Sim, Policy{SavePVT: true, SaveJPG: false, SaveMOV: true})
	report, err := d.Run(context.Background(), []classify.Entry{
		entry("still", "Media/DCIM/100APPLE/IMG_0001.JPG", classify.CameraRoll, true),
		entry("motion", "Media/DCIM/100APPLE/IMG_0001.MOV", classify.CameraRoll, true),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	dest := filepath.Join(f.out, "100APPLE")
	wrapper := filepath.Join(dest, "IMG_0001.pvt")
	assertFile(t, filepath.Join(wrapper, "IMG_0001.JPG"))
	assertFile(t, filepath.Join(wrapper, "IMG_0001.MOV"))
	assertMissing(t, filepath.Join(dest, "IMG_0001.JPG"))
	assertFile(t, filepath.Join(dest, "IMG_0001.MOV"))

	for _, o := range report.Relocated {
		if o.Kind != KindLivePair {
			t.Fatalf("expected live pair outcome, got %s", o.Kind)
		}
	}
	if report.Relocated[0].StandaloneCopy != "" {
		t.Fatalf("still must not have a standalone copy, got %q", report.Relocated[0].StandaloneCopy)
	}
	if report.Relocated[1].StandaloneCopy != filepath.Join(dest, "IMG_0001.MOV") {
		t.Fatalf("unexpected standalone copy %q", report.Relocated[1].StandaloneCopy)
	}

	var stills int
	_ = filepath.Walk(f.out, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && filepath.Base(path) == "IMG_0001.JPG" {
			stills++
		}
		return nil
	})
	if stills != 1 {
		t.Fatalf("expected exactly one still in the output tree, got %d", stills)
	}
}

func TestRunWrapperDeclined(t *testing.T) {
	f := newFixture(t)
	still := f.store(t, "still")
	f.store(t, "motion")

	d := f.driver(layout.Raw, Policy{SavePVT: false, SaveJPG: true, SaveMOV: false})
	report, err := d.Run(context.Background(), []classify.Entry{
		entry("still", "Media/DCIM/IMG_7.jpeg", classify.CameraRoll, true),
		entry("motion", "Media/DCIM/IMG_7.mov", classify.CameraRoll, true),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertMissing(t, still)
	assertFile(t, filepath.Join(f.out, "Media", "DCIM", "IMG_7.jpeg"))
	assertMissing(t, filepath.Join(f.out, "Media", "DCIM", "IMG_7.mov"))
	assertFile(t, f.locator["motion"])

	counts := report.Counts(classify.CameraRoll)
	if counts.Relocated != 1 || counts.Skipped != 1 || counts.Total() != 2 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func TestRunRecordsNotFoundAndKeepsAccounting(t *testing.T) {
	f := newFixture(t)
	f.store(t, "present")

	entries := []classify.Entry{
		entry("present", "Media/DCIM/IMG_1.JPG", classify.CameraRoll, false),
		entry("missing", "Media/DCIM/IMG_2.JPG", classify.CameraRoll, false),
		entry("gone", "Library/SMS/Attachments/IMG_3.JPG", classify.SMSAttachment, false),
	}
	report, err := f.driver(layout.Smart, Policy{SavePVT: true, SaveJPG: true, SaveMOV: true}).Run(context.Background(), entries)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Len() != len(entries) {
		t.Fatalf("accounting mismatch: %d records for %d entries", report.Len(), len(entries))
	}
	if len(report.NotFound) != 2 {
		t.Fatalf("expected 2 not found, got %d", len(report.NotFound))
	}
	if nf := report.NotFound[1]; nf.ID != "gone" || nf.Category != classify.SMSAttachment || nf.RelativePath != "Library/SMS/Attachments/IMG_3.JPG" {
		t.Fatalf("unexpected record %+v", nf)
	}
	if report.Counts(classify.SMSAttachment).NotFound != 1 {
		t.Fatal("expected sms not-found count of 1")
	}
}

func TestRunRecordsFailuresAndContinues(t *testing.T) {
	f := newFixture(t)
	f.store(t, "blocked")
	f.store(t, "fine")

	blocker := filepath.Join(f.out, "Media")
	testsupport.WriteFile(t, blocker, 1)

	d := f.driver(layout.Raw, Policy{SavePVT: true, SaveJPG: true, SaveMOV: true})
	report, err := d.Run(context.Background(), []classify.Entry{
		entry("blocked", "Media/DCIM/IMG_1.JPG", classify.CameraRoll, false),
		entry("fine", "Other/IMG_2.JPG", classify.CameraRoll, false),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Failures) != 1 || len(report.Relocated) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	failure := report.Failures[0]
	if failure.Entry.ID != "blocked" || !errors.Is(failure.Err, services.ErrRelocation) {
		t.Fatalf("unexpected failure %+v", failure)
	}
	assertFile(t, f.locator["blocked"])
	assertFile(t, filepath.Join(f.out, "Other", "IMG_2.JPG"))
}

// Two entries from different source folders resolve to the same file under
// the smart layout; the second must fail instead of replacing the first.
func TestRunRefusesCollidingTargets(t *testing.T) {
	for _, dryRun := range []bool{false, true} {
		f := newFixture(t)
		f.store(t, "first")
		second := f.store(t, "second")

		d := f.driver(layout.Smart, Policy{SavePVT: true, SaveJPG: true, SaveMOV: true})
		d.DryRun = dryRun
		report, err := d.Run(context.Background(), []classify.Entry{
			entry("first", "Media/DCIM/100APPLE/IMG_0001.JPG", classify.CameraRoll, false),
			entry("second", "Media/PhotoData/100APPLE/IMG_0001.JPG", classify.CameraRoll, false),
		})
		if err != nil {
			t.Fatalf("dry=%v Run: %v", dryRun, err)
		}
		if len(report.Relocated) != 1 || len(report.Failures) != 1 || report.Len() != 2 {
			t.Fatalf("dry=%v unexpected report %+v", dryRun, report)
		}
		failure := report.Failures[0]
		if failure.Entry.ID != "second" ||
			!errors.Is(failure.Err, services.ErrRelocation) ||
			!errors.Is(failure.Err, fileutil.ErrTargetExists) {
			t.Fatalf("dry=%v unexpected failure %+v", dryRun, failure)
		}
		if failure.Path != "" {
			t.Fatalf("dry=%v failed entry never left the backup, got path %q", dryRun, failure.Path)
		}
		assertFile(t, second)
		if !dryRun {
			assertFile(t, filepath.Join(f.out, "CameraRoll", "100APPLE", "IMG_0001.JPG"))
		}
	}
}

func TestRunRefusesExistingOutputFile(t *testing.T) {
	f := newFixture(t)
	src := f.store(t, "aa01")
	existing := filepath.Join(f.out, "CameraRoll", "100APPLE", "IMG_0001.JPG")
	testsupport.WriteFile(t, existing, 3)

	d := f.driver(layout.Smart, Policy{SavePVT: true, SaveJPG: true, SaveMOV: true})
	report, err := d.Run(context.Background(), []classify.Entry{
		entry("aa01", "Media/DCIM/100APPLE/IMG_0001.JPG", classify.CameraRoll, false),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Failures) != 1 || !errors.Is(report.Failures[0].Err, fileutil.ErrTargetExists) {
		t.Fatalf("unexpected report %+v", report)
	}
	assertFile(t, src)
	if info, err := os.Stat(existing); err != nil || info.Size() != 3 {
		t.Fatalf("existing output changed: %v %v", info, err)
	}
}

// When the standalone copy fails after the move into the wrapper, the
// failure records where the file now lives.
func TestRunStandaloneCopyFailureRecordsWrappedPath(t *testing.T) {
	f := newFixture(t)
	src := f.store(t, "still")
	testsupport.WriteFile(t, filepath.Join(f.out, "100APPLE", "IMG_0001.JPG"), 3)

	d := f.driver(layout.Sim, Policy{SavePVT: true, SaveJPG: true, SaveMOV: true})
	report, err := d.Run(context.Background(), []classify.Entry{
		entry("still", "Media/DCIM/100APPLE/IMG_0001.JPG", classify.CameraRoll, true),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Failures) != 1 || len(report.Relocated) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	wrapped := filepath.Join(f.out, "100APPLE", "IMG_0001.pvt", "IMG_0001.JPG")
	if got := report.Failures[0].Path; got != wrapped {
		t.Fatalf("failure path %q, want %q", got, wrapped)
	}
	assertMissing(t, src)
	assertFile(t, wrapped)
}

func TestRunDryRunLeavesFilesystemUntouched(t *testing.T) {
	f := newFixture(t)
	src := f.store(t, "aa")

	d := f.driver(layout.Smart, Policy{SavePVT: true, SaveJPG: true, SaveMOV: true})
	d.DryRun = true
	var calls int
	d.Progress = func(done, total int) { calls++ }

	report, err := d.Run(context.Background(), []classify.Entry{
		entry("aa", "Media/DCIM/100APPLE/IMG_1.JPG", classify.CameraRoll, true),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertFile(t, src)
	assertMissing(t, f.out)
	if calls != 1 {
		t.Fatalf("expected one progress call, got %d", calls)
	}
	want := filepath.Join(f.out, "CameraRoll", "100APPLE", "IMG_1.pvt", "IMG_1.JPG")
	if got := report.Relocated[0].Path; got != want {
		t.Fatalf("planned path %q, want %q", got, want)
	}
}

func TestRunStopsOnCancellation(t *testing.T) {
	f := newFixture(t)
	f.store(t, "aa")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.driver(layout.Raw, Policy{}).Run(ctx, []classify.Entry{
		entry("aa", "Media/DCIM/IMG_1.JPG", classify.CameraRoll, false),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if report.Len() != 0 {
		t.Fatalf("expected empty partial report, got %d records", report.Len())
	}
}

func TestRunRequiresLocator(t *testing.T) {
	d := &Driver{}
	if _, err := d.Run(context.Background(), nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestWrapperDirs(t *testing.T) {
	f := newFixture(t)
	f.store(t, "inside")
	f.store(t, "flat")
	f.store(t, "camera")

	d := f.driver(layout.Raw, Policy{SavePVT: true, SaveJPG: true, SaveMOV: true})
	report, err := d.Run(context.Background(), []classify.Entry{
		entry("inside", "Library/SMS/Attachments/0a/IMG_5.pvt/IMG_5.MOV", classify.SMSAttachment, false),
		entry("flat", "Library/SMS/Attachments/0b/IMG_6.JPG", classify.SMSAttachment, false),
		entry("camera", "Media/DCIM/IMG_8.pvt/IMG_8.JPG", classify.CameraRoll, false),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	dirs := report.WrapperDirs(classify.SMSAttachment)
	want := filepath.Join(f.out, "Library", "SMS", "Attachments", "0a", "IMG_5.pvt")
	if len(dirs) != 1 || dirs[0] != want {
		t.Fatalf("WrapperDirs = %v, want [%s]", dirs, want)
	}
}

func TestPolicyKeepsStandalone(t *testing.T) {
	p := Policy{SaveJPG: false, SaveMOV: true}
	if p.KeepsStandalone(classify.RoleStill) || !p.KeepsStandalone(classify.RoleMotion) || !p.KeepsStandalone(classify.RoleNone) {
		t.Fatal("unexpected standalone policy")
	}
	if got := PolicyFromConfig(nil); !got.SavePVT || !got.SaveJPG || !got.SaveMOV {
		t.Fatalf("unexpected default policy %+v", got)
	}
}

func TestReportMerge(t *testing.T) {
	var total Report
	total.Merge(Report{NotFound: []NotFoundRecord{{ID: "a"}}})
	total.Merge(Report{Failures: []Failure{{}}, Relocated: []Outcome{{}}})
	if total.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", total.Len())
	}
}
