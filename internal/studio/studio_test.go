package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tahcohcat/vocalize/internal/audio"
	"github.com/tahcohcat/vocalize/internal/history"
	"github.com/tahcohcat/vocalize/internal/tts"
)

type synthCall struct {
	Text  string
	Voice string
}

// fakeSynth returns each utterance's voice name as its audio payload, so
// tests can check attribution and ordering in the concatenated result.
type fakeSynth struct {
	mu    sync.Mutex
	calls []synthCall
	// failAt fails the nth call (1-based); 0 never fails
	failAt int
	// when non-nil, every request waits on block until it is closed
	block chan struct{}
}

func (f *fakeSynth) GenerateSpeech(_ context.Context, text, voice string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, synthCall{Text: text, Voice: voice})
	n := len(f.calls)
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	if f.failAt > 0 && n == f.failAt {
		return "", &tts.SynthesisError{Provider: "fake", Err: tts.ErrNoAudio}
	}
	return audio.EncodeBase64([]byte(voice)), nil
}

func (f *fakeSynth) GenerateConversation(_ context.Context, text string, _ []tts.SpeakerVoice) (string, error) {
	return audio.EncodeBase64([]byte("conversation")), nil
}

func (f *fakeSynth) Name() string { return "fake" }

func (f *fakeSynth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type playedAudio struct {
	B64   string
	Speed float64
}

type fakePlayer struct {
	mu     sync.Mutex
	played []playedAudio
	err    error
}

func (p *fakePlayer) Play(b64 string, speed float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.played = append(p.played, playedAudio{B64: b64, Speed: speed})
	return nil
}

func (p *fakePlayer) Stop() {}

type recordedEvent struct {
	Type    string
	Payload any
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *fakeNotifier) Notify(event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{Type: event, Payload: payload})
}

func (n *fakeNotifier) ofType(event string) []recordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []recordedEvent
	for _, e := range n.events {
		if e.Type == event {
			out = append(out, e)
		}
	}
	return out
}

func newTestStudio(t *testing.T, synth tts.Synthesizer, player PlaybackController) (*Studio, *fakeNotifier) {
	t.Helper()
	store, err := history.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	notifier := &fakeNotifier{}
	return New(synth, player, store, notifier), notifier
}

func TestGenerateSimpleMode(t *testing.T) {
	synth := &fakeSynth{}
	player := &fakePlayer{}
	st, notifier := newTestStudio(t, synth, player)

	item, err := st.Generate(context.Background(), "sess-simple", "hello world")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if synth.callCount() != 1 {
		t.Fatalf("synth calls = %d, want 1", synth.callCount())
	}
	if synth.calls[0].Voice != "Enceladus" {
		t.Errorf("voice = %q, want session default", synth.calls[0].Voice)
	}
	if item.Voice != "Enceladus" {
		t.Errorf("history voice label = %q", item.Voice)
	}
	if item.Text != "hello world..." {
		t.Errorf("history text = %q, want truncated form", item.Text)
	}

	if len(player.played) != 1 {
		t.Fatalf("plays = %d, want 1", len(player.played))
	}
	if player.played[0].Speed != 1.0 {
		t.Errorf("speed = %v, want default 1.0", player.played[0].Speed)
	}

	if got := notifier.ofType("generation.done"); len(got) != 1 {
		t.Errorf("generation.done events = %d, want 1", len(got))
	}
}

func TestGenerateRejectsEmptyTextBeforeSynthesis(t *testing.T) {
	synth := &fakeSynth{}
	st, _ := newTestStudio(t, synth, &fakePlayer{})

	for _, text := range []string{"", "   ", "\n\t "} {
		var verr *ValidationError
		if _, err := st.Generate(context.Background(), "sess-empty", text); !errors.As(err, &verr) {
			t.Errorf("text %q: err = %v, want *ValidationError", text, err)
		}
	}
	if synth.callCount() != 0 {
		t.Fatalf("synth calls = %d, want 0 for invalid input", synth.callCount())
	}

	items, _ := st.History("sess-empty")
	if len(items) != 0 {
		t.Fatalf("history items = %d, want 0", len(items))
	}
}

func TestGenerateRejectsOversizedText(t *testing.T) {
	synth := &fakeSynth{}
	st, _ := newTestStudio(t, synth, &fakePlayer{})

	long := strings.Repeat("a", MaxTextLength+1)
	var verr *ValidationError
	if _, err := st.Generate(context.Background(), "sess-long", long); !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if synth.callCount() != 0 {
		t.Fatalf("synth calls = %d, want 0", synth.callCount())
	}

	// Exactly at the limit is accepted.
	exact := strings.Repeat("a", MaxTextLength)
	if _, err := st.Generate(context.Background(), "sess-long", exact); err != nil {
		t.Fatalf("text at limit rejected: %v", err)
	}
}

func TestGenerateScriptModeSequentialAndOrdered(t *testing.T) {
	synth := &fakeSynth{}
	player := &fakePlayer{}
	st, notifier := newTestStudio(t, synth, player)

	sess := st.Session("sess-script")
	if err := sess.SetMode("script"); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	script := "Narrator: line one\nAlice: line two\nNarrator: line three"
	item, err := st.Generate(context.Background(), "sess-script", script)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if synth.callCount() != 3 {
		t.Fatalf("synth calls = %d, want 3", synth.callCount())
	}
	wantVoices := []string{"Enceladus", "Aoede", "Enceladus"}
	for i, w := range wantVoices {
		if synth.calls[i].Voice != w {
			t.Errorf("call %d voice = %q, want %q", i, synth.calls[i].Voice, w)
		}
	}

	// Concatenation preserves utterance order: the payloads are the voice
	// names the fake synthesizer emitted.
	data, err := audio.DecodeBase64(item.AudioData)
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if string(data) != "EnceladusAoedeEnceladus" {
		t.Errorf("concatenated payload = %q", data)
	}

	if item.Voice != ScriptVoiceLabel {
		t.Errorf("history voice label = %q, want %q", item.Voice, ScriptVoiceLabel)
	}

	progress := notifier.ofType("utterance.done")
	if len(progress) != 3 {
		t.Fatalf("utterance.done events = %d, want 3", len(progress))
	}
	last, ok := progress[2].Payload.(map[string]any)
	if !ok || last["index"] != 3 || last["total"] != 3 {
		t.Errorf("final progress payload = %+v", progress[2].Payload)
	}
}

func TestGenerateScriptModeAllOrNothing(t *testing.T) {
	synth := &fakeSynth{failAt: 2}
	st, notifier := newTestStudio(t, synth, &fakePlayer{})

	sess := st.Session("sess-fail")
	if err := sess.SetMode("script"); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	_, err := st.Generate(context.Background(), "sess-fail", "Narrator: one\nAlice: two\nNarrator: three")
	var serr *tts.SynthesisError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *SynthesisError", err)
	}

	// The failing request stops the loop; the third line is never sent.
	if synth.callCount() != 2 {
		t.Errorf("synth calls = %d, want 2", synth.callCount())
	}

	items, _ := st.History("sess-fail")
	if len(items) != 0 {
		t.Fatalf("history items = %d, want 0 after mid-script failure", len(items))
	}
	if got := notifier.ofType("generation.failed"); len(got) != 1 {
		t.Errorf("generation.failed events = %d, want 1", len(got))
	}
}

func TestPreviewRefusedWhileInFlight(t *testing.T) {
	synth := &fakeSynth{block: make(chan struct{})}
	st, _ := newTestStudio(t, synth, &fakePlayer{})

	done := make(chan error, 1)
	go func() {
		done <- st.Preview(context.Background(), "sess-prev", "Puck")
	}()

	// Wait for the first preview to enter synthesis.
	for synth.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	if err := st.Preview(context.Background(), "sess-prev", "Kore"); !errors.Is(err, ErrPreviewBusy) {
		t.Fatalf("second preview err = %v, want ErrPreviewBusy", err)
	}

	close(synth.block)
	if err := <-done; err != nil {
		t.Fatalf("first preview: %v", err)
	}

	// Once the first finishes, previews are accepted again.
	if err := st.Preview(context.Background(), "sess-prev", "Kore"); err != nil {
		t.Fatalf("follow-up preview: %v", err)
	}
}

func TestPreviewUsesTemplateLine(t *testing.T) {
	synth := &fakeSynth{}
	st, _ := newTestStudio(t, synth, &fakePlayer{})

	if err := st.Preview(context.Background(), "sess-tmpl", "Kore"); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if synth.calls[0].Text != "Hi! I am the Kore voice. How do I sound?" {
		t.Errorf("preview text = %q", synth.calls[0].Text)
	}
	if synth.calls[0].Voice != "Kore" {
		t.Errorf("preview voice = %q", synth.calls[0].Voice)
	}
}

func TestPreviewRejectsUnknownVoice(t *testing.T) {
	st, _ := newTestStudio(t, &fakeSynth{}, &fakePlayer{})

	var verr *ValidationError
	if err := st.Preview(context.Background(), "sess-bad", "NotAVoice"); !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
}

func TestReplayUsesCurrentSpeed(t *testing.T) {
	player := &fakePlayer{}
	st, _ := newTestStudio(t, &fakeSynth{}, player)

	item, err := st.Generate(context.Background(), "sess-replay", "something")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	st.Session("sess-replay").SetSpeed(1.5)

	if err := st.Replay("sess-replay", item.ID); err != nil {
		t.Fatalf("Replay: %v", err)
	}

	last := player.played[len(player.played)-1]
	if last.Speed != 1.5 {
		t.Errorf("replay speed = %v, want the current session speed 1.5", last.Speed)
	}
	if last.B64 != item.AudioData {
		t.Errorf("replay should reuse the stored audio")
	}
}

func TestReplayMissingItem(t *testing.T) {
	st, _ := newTestStudio(t, &fakeSynth{}, &fakePlayer{})

	if err := st.Replay("sess-missing", 12345); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("err = %v, want history.ErrNotFound", err)
	}
}

func TestGenerateReturnsItemEvenIfPlaybackFails(t *testing.T) {
	player := &fakePlayer{err: fmt.Errorf("no audio device")}
	st, _ := newTestStudio(t, &fakeSynth{}, player)

	item, err := st.Generate(context.Background(), "sess-noplay", "hello")
	if err != nil {
		t.Fatalf("Generate should succeed despite playback failure: %v", err)
	}
	if item == nil || item.ID == 0 {
		t.Fatal("history item should still be recorded")
	}
}

func TestSessionSpeedClamped(t *testing.T) {
	st, _ := newTestStudio(t, &fakeSynth{}, &fakePlayer{})
	sess := st.Session("sess-speed")

	tests := []struct {
		in, want float64
	}{
		{0.1, MinSpeed},
		{0.5, 0.5},
		{1.0, 1.0},
		{2.0, 2.0},
		{3.5, MaxSpeed},
	}
	for _, tt := range tests {
		if got := sess.SetSpeed(tt.in); got != tt.want {
			t.Errorf("SetSpeed(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got := sess.Speed(); got != tt.want {
			t.Errorf("Speed() after SetSpeed(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSessionRosterRules(t *testing.T) {
	st, _ := newTestStudio(t, &fakeSynth{}, &fakePlayer{})
	sess := st.Session("sess-roster")

	roster := sess.Roster()
	if len(roster) != 2 || roster[0].Name != "Narrator" || roster[1].Name != "Alice" {
		t.Fatalf("default roster = %+v", roster)
	}

	added := sess.AddSpeaker()
	if added.ID != "3" || added.Voice != "Puck" {
		t.Errorf("new speaker = %+v, want id 3 with voice Puck", added)
	}

	if err := sess.RemoveSpeaker("3"); err != nil {
		t.Fatalf("RemoveSpeaker: %v", err)
	}
	// Ids are never reused within a session.
	if again := sess.AddSpeaker(); again.ID != "4" {
		t.Errorf("next id = %q, want 4", again.ID)
	}

	if err := sess.RemoveSpeaker("nope"); !errors.Is(err, ErrSpeakerNotFound) {
		t.Errorf("unknown speaker err = %v", err)
	}

	// Removing down to one speaker is fine; removing the last is refused.
	if err := sess.RemoveSpeaker("1"); err != nil {
		t.Fatalf("RemoveSpeaker: %v", err)
	}
	if err := sess.RemoveSpeaker("2"); err != nil {
		t.Fatalf("RemoveSpeaker: %v", err)
	}
	if err := sess.RemoveSpeaker("4"); !errors.Is(err, ErrLastSpeaker) {
		t.Fatalf("last removal err = %v, want ErrLastSpeaker", err)
	}
}

func TestSessionUpdateSpeaker(t *testing.T) {
	st, _ := newTestStudio(t, &fakeSynth{}, &fakePlayer{})
	sess := st.Session("sess-update")

	got, err := sess.UpdateSpeaker("2", "Bob", "Charon")
	if err != nil {
		t.Fatalf("UpdateSpeaker: %v", err)
	}
	if got.Name != "Bob" || got.Voice != "Charon" {
		t.Errorf("updated speaker = %+v", got)
	}

	// Empty fields leave existing values alone.
	got, err = sess.UpdateSpeaker("2", "", "")
	if err != nil {
		t.Fatalf("UpdateSpeaker: %v", err)
	}
	if got.Name != "Bob" || got.Voice != "Charon" {
		t.Errorf("speaker changed unexpectedly: %+v", got)
	}

	var verr *ValidationError
	if _, err := sess.UpdateSpeaker("2", "", "NotAVoice"); !errors.As(err, &verr) {
		t.Errorf("bad voice err = %v, want *ValidationError", err)
	}
	if _, err := sess.UpdateSpeaker("99", "X", ""); !errors.Is(err, ErrSpeakerNotFound) {
		t.Errorf("missing speaker err = %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short"); got != "short..." {
		t.Errorf("truncate short = %q", got)
	}
	long := strings.Repeat("x", 60)
	want := strings.Repeat("x", 40) + "..."
	if got := truncate(long); got != want {
		t.Errorf("truncate long = %q, want %q", got, want)
	}
}
