package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neosplus/neosplus-launcher/internal/config"
	"github.com/neosplus/neosplus-launcher/internal/status"
)

type recorder struct {
	events []string
}

func (r *recorder) add(e string) { r.events = append(r.events, e) }

type fakeStore struct {
	rec     *recorder
	cfg     config.Config
	loads   int
	saves   int
	saveErr error
}

func (s *fakeStore) Load() (*config.Config, error) {
	s.loads++
	s.rec.add("load")
	c := s.cfg
	return &c, nil
}

func (s *fakeStore) Save(c *config.Config) error {
	s.saves++
	s.rec.add("save")
	if s.saveErr != nil {
		return s.saveErr
	}
	s.cfg = *c
	return nil
}

type fakePicker struct {
	rec *recorder
	dir string
	ok  bool
	err error
}

func (p *fakePicker) Prompt(initial string) (string, bool, error) {
	p.rec.add("prompt:" + initial)
	return p.dir, p.ok, p.err
}

type fakeFetcher struct {
	rec       *recorder
	result    DownloadResult
	gotPath   string
	gotTarget string
	during    func()
}

func (f *fakeFetcher) FetchAndInstall(ctx context.Context, installPath, targetDir string) DownloadResult {
	f.rec.add("fetch")
	f.gotPath = installPath
	f.gotTarget = targetDir
	if f.during != nil {
		f.during()
	}
	return f.result
}

func newOrchestrator(paths []string) (*Orchestrator, *recorder, *fakeStore, *fakePicker, *fakeFetcher) {
	rec := &recorder{}
	store := &fakeStore{rec: rec}
	picker := &fakePicker{rec: rec}
	fetcher := &fakeFetcher{rec: rec, result: DownloadResult{Success: true, Message: "NeosPlus v1 installed"}}
	o := &Orchestrator{
		Resolver: ResolverFunc(func() []string {
			rec.add("resolve")
			return paths
		}),
		Picker:  picker,
		Fetcher: fetcher,
		Config:  store,
		Board:   status.NewBoard(),
	}
	return o, rec, store, picker, fetcher
}

func TestInstallDetectedPath(t *testing.T) {
	o, rec, store, _, fetcher := newOrchestrator([]string{"/games/Neos", "/other/Neos"})

	var texts []string
	var disabledDuringFetch bool
	o.Board.Subscribe(func(s status.Snapshot) { texts = append(texts, s.Text) })
	fetcher.during = func() { disabledDuringFetch = !o.Board.Snapshot().InstallEnabled }

	out := o.Install(context.Background())
	if out.Kind != status.Succeeded || out.Message != MsgDone {
		t.Fatalf("unexpected outcome: %v", out)
	}
	if fetcher.gotPath != "/games/Neos" || fetcher.gotTarget != "/games/Neos/Libraries/NeosPlus" {
		t.Fatalf("fetch called with %q, %q", fetcher.gotPath, fetcher.gotTarget)
	}
	if store.loads != 0 || store.saves != 0 {
		t.Fatalf("detected path should not touch config: loads=%d saves=%d", store.loads, store.saves)
	}
	if !disabledDuringFetch {
		t.Fatalf("install flag should be off while fetching")
	}
	if snap := o.Board.Snapshot(); !snap.InstallEnabled || snap.Text != MsgDone {
		t.Fatalf("unexpected final board: %+v", snap)
	}
	if strings.Join(rec.events, ",") != "resolve,fetch" {
		t.Fatalf("events=%v", rec.events)
	}

	wantTexts := []string{MsgChecking, MsgDownloading, "NeosPlus v1 installed", MsgDone}
	var gotTexts []string
	for i, text := range texts {
		if i == 0 || text != texts[i-1] {
			gotTexts = append(gotTexts, text)
		}
	}
	// The first notification is the install flag switching off with empty text.
	if len(gotTexts) == 0 || gotTexts[0] != "" {
		t.Fatalf("unexpected status sequence: %q", texts)
	}
	if strings.Join(gotTexts[1:], "|") != strings.Join(wantTexts, "|") {
		t.Fatalf("status sequence=%q want=%q", gotTexts[1:], wantTexts)
	}
}

func TestInstallCancelledPicker(t *testing.T) {
	o, rec, store, picker, _ := newOrchestrator(nil)
	picker.ok = false

	out := o.Install(context.Background())
	if out.Kind != status.Cancelled || out.Message != MsgNoDirSelected {
		t.Fatalf("unexpected outcome: %v", out)
	}
	if store.loads != 0 || store.saves != 0 {
		t.Fatalf("cancel must not touch config: loads=%d saves=%d", store.loads, store.saves)
	}
	if strings.Join(rec.events, ",") != "resolve,prompt:." {
		t.Fatalf("events=%v", rec.events)
	}
	if snap := o.Board.Snapshot(); !snap.InstallEnabled || snap.Text != MsgNoDirSelected {
		t.Fatalf("unexpected board: %+v", snap)
	}
}

func TestInstallNoPickerCancels(t *testing.T) {
	o, _, store, _, _ := newOrchestrator(nil)
	o.Picker = nil

	out := o.Install(context.Background())
	if out.Kind != status.Cancelled {
		t.Fatalf("unexpected outcome: %v", out)
	}
	if store.saves != 0 {
		t.Fatalf("saves=%d want=0", store.saves)
	}
}

func TestInstallUserSuppliedDirSavedOnceBeforeFetch(t *testing.T) {
	o, rec, store, picker, fetcher := newOrchestrator(nil)
	picker.dir = "/mnt/games/Neos"
	picker.ok = true
	store.cfg.LauncherArguments = "-Screen"

	out := o.Install(context.Background())
	if !out.OK() {
		t.Fatalf("unexpected outcome: %v", out)
	}
	if store.saves != 1 {
		t.Fatalf("saves=%d want=1", store.saves)
	}
	if store.cfg.CustomInstallDir != "/mnt/games/Neos" {
		t.Fatalf("CustomInstallDir=%q", store.cfg.CustomInstallDir)
	}
	if store.cfg.LauncherArguments != "-Screen" {
		t.Fatalf("unrelated config field was clobbered: %+v", store.cfg)
	}
	if got := strings.Join(rec.events, ","); got != "resolve,prompt:.,load,save,fetch" {
		t.Fatalf("events=%s", got)
	}
	if fetcher.gotPath != "/mnt/games/Neos" {
		t.Fatalf("fetch path=%q", fetcher.gotPath)
	}
}

func TestInstallDirOverrideSkipsDetection(t *testing.T) {
	o, rec, store, _, fetcher := newOrchestrator([]string{"/games/Neos"})
	custom := t.TempDir()
	o.InstallDir = custom

	out := o.Install(context.Background())
	if !out.OK() {
		t.Fatalf("unexpected outcome: %v", out)
	}
	if got := strings.Join(rec.events, ","); got != "load,save,fetch" {
		t.Fatalf("events=%s", got)
	}
	if store.cfg.CustomInstallDir != custom || fetcher.gotPath != custom {
		t.Fatalf("override not used: cfg=%+v fetch=%q", store.cfg, fetcher.gotPath)
	}
}

func TestInstallDirOverrideMadeAbsolute(t *testing.T) {
	base := t.TempDir()
	if err := os.Mkdir(filepath.Join(base, "Neos"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(base); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevWD) })

	o, _, store, _, fetcher := newOrchestrator(nil)
	o.InstallDir = "Neos"

	out := o.Install(context.Background())
	if !out.OK() {
		t.Fatalf("unexpected outcome: %v", out)
	}
	want, err := filepath.Abs("Neos")
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	if !filepath.IsAbs(store.cfg.CustomInstallDir) || store.cfg.CustomInstallDir != want || fetcher.gotPath != want {
		t.Fatalf("stored=%q fetched=%q want=%q", store.cfg.CustomInstallDir, fetcher.gotPath, want)
	}
}

func TestInstallDirOverrideRejectsMissingDir(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "missing",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "Neoss")
			},
		},
		{
			name: "file",
			setup: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "neos.exe")
				if err := os.WriteFile(p, nil, 0o644); err != nil {
					t.Fatalf("write: %v", err)
				}
				return p
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			o, rec, store, _, _ := newOrchestrator([]string{"/games/Neos"})
			o.InstallDir = dir

			out := o.Install(context.Background())
			want := "Failed to execute install: not a directory: " + dir
			if out.Kind != status.Failed || out.Message != want {
				t.Fatalf("outcome=%v want message %q", out, want)
			}
			if len(rec.events) != 0 || store.saves != 0 {
				t.Fatalf("nothing should run: events=%v saves=%d", rec.events, store.saves)
			}
			if _, err := os.Stat(filepath.Join(dir, "Libraries")); err == nil {
				t.Fatalf("install tree created under %s", dir)
			}
			if snap := o.Board.Snapshot(); !snap.InstallEnabled || snap.Text != want {
				t.Fatalf("unexpected board: %+v", snap)
			}
		})
	}
}

func TestInstallFetchFailure(t *testing.T) {
	o, _, _, _, fetcher := newOrchestrator([]string{"/games/Neos"})
	fetcher.result = DownloadResult{Message: "Failed to download NeosPlus: HTTP 404"}

	out := o.Install(context.Background())
	if out.Kind != status.Failed || out.Message != "Failed to download NeosPlus: HTTP 404" {
		t.Fatalf("unexpected outcome: %v", out)
	}
	if snap := o.Board.Snapshot(); !snap.InstallEnabled || snap.Text != out.Message {
		t.Fatalf("unexpected board: %+v", snap)
	}
}

func TestInstallConfigSaveError(t *testing.T) {
	o, rec, store, picker, _ := newOrchestrator(nil)
	picker.dir = "/mnt/Neos"
	picker.ok = true
	store.saveErr = errors.New("disk full")

	out := o.Install(context.Background())
	if out.Kind != status.Failed {
		t.Fatalf("unexpected outcome: %v", out)
	}
	if !strings.HasPrefix(out.Message, "Failed to execute install: ") || !strings.Contains(out.Message, "disk full") {
		t.Fatalf("message=%q", out.Message)
	}
	for _, e := range rec.events {
		if e == "fetch" {
			t.Fatalf("fetch must not run after a config failure: %v", rec.events)
		}
	}
	if !o.Board.Snapshot().InstallEnabled {
		t.Fatalf("install flag not restored")
	}
}

func TestInstallPickerError(t *testing.T) {
	o, _, _, picker, _ := newOrchestrator(nil)
	picker.err = errors.New("stdin closed")

	out := o.Install(context.Background())
	if out.Kind != status.Failed || !strings.Contains(out.Message, "selecting directory: stdin closed") {
		t.Fatalf("unexpected outcome: %v", out)
	}
}

func TestInstallRejectsConcurrentRun(t *testing.T) {
	o, _, _, _, fetcher := newOrchestrator([]string{"/games/Neos"})

	started := make(chan struct{})
	release := make(chan struct{})
	fetcher.during = func() {
		close(started)
		<-release
	}

	done := make(chan status.Outcome)
	go func() { done <- o.Install(context.Background()) }()
	<-started

	second := o.Install(context.Background())
	if second.Kind != status.Failed || second.Message != MsgBusy {
		t.Fatalf("second install outcome: %v", second)
	}

	close(release)
	if first := <-done; !first.OK() {
		t.Fatalf("first install outcome: %v", first)
	}

	fetcher.during = nil
	if again := o.Install(context.Background()); !again.OK() {
		t.Fatalf("install after completion: %v", again)
	}
}

func TestInstallFetcherPanicIsReported(t *testing.T) {
	o, _, _, _, fetcher := newOrchestrator([]string{"/games/Neos"})
	fetcher.during = func() { panic("zip reader exploded") }

	out := o.Install(context.Background())
	want := "Failed to execute install: zip reader exploded"
	if out.Kind != status.Failed || out.Message != want {
		t.Fatalf("outcome=%v want message %q", out, want)
	}
	if snap := o.Board.Snapshot(); !snap.InstallEnabled || snap.Text != want {
		t.Fatalf("unexpected board: %+v", snap)
	}

	fetcher.during = nil
	if again := o.Install(context.Background()); !again.OK() {
		t.Fatalf("install after panic: %v", again)
	}
}
