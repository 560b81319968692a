package session

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/internal/models"
	"github.com/GregMSThompson/money-tracker/pkg/helpers"
)

type fakeAuthClient struct {
	token     *auth.Token
	verifyErr error

	record  *auth.UserRecord
	userErr error

	link         string
	linkErr      error
	lastEmail    string
	lastSettings *auth.ActionCodeSettings

	revokeErr  error
	revokedUID string
}

func (f *fakeAuthClient) VerifyIDToken(_ context.Context, _ string) (*auth.Token, error) {
	return f.token, f.verifyErr
}

func (f *fakeAuthClient) GetUser(_ context.Context, _ string) (*auth.UserRecord, error) {
	return f.record, f.userErr
}

func (f *fakeAuthClient) EmailSignInLink(_ context.Context, email string, settings *auth.ActionCodeSettings) (string, error) {
	f.lastEmail = email
	f.lastSettings = settings
	return f.link, f.linkErr
}

func (f *fakeAuthClient) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revokedUID = uid
	return f.revokeErr
}

type fakeSender struct {
	calls       int
	email, link string
	err         error
}

func (f *fakeSender) SendSignInLink(_ context.Context, email, link string) error {
	f.calls++
	f.email, f.link = email, link
	return f.err
}

func TestVerifyTokenEmitsSignedInOnce(t *testing.T) {
	client := &fakeAuthClient{token: &auth.Token{UID: "u1", Claims: map[string]interface{}{"email": "jane@example.com"}}}
	tracker := NewTracker()
	var events []Event
	unsubscribe := tracker.Subscribe(func(_ context.Context, e Event) { events = append(events, e) })
	defer unsubscribe()

	g := NewGateway(client, &fakeSender{}, tracker, "https://app.example.com")
	for i := 0; i < 3; i++ {
		user, err := g.VerifyToken(helpers.TestCtx(), "token")
		if err != nil {
			t.Fatalf("VerifyToken returned error: %v", err)
		}
		if user.UID != "u1" || user.Email != "jane@example.com" {
			t.Fatalf("unexpected user: %+v", user)
		}
	}

	if len(events) != 1 || events[0].Type != SignedIn {
		t.Fatalf("expected one SignedIn event, got %+v", events)
	}
}

func TestVerifyTokenError(t *testing.T) {
	client := &fakeAuthClient{verifyErr: errors.New("expired")}
	g := NewGateway(client, &fakeSender{}, NewTracker(), "")
	if _, err := g.VerifyToken(helpers.TestCtx(), "bad"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSignOutRevokesAndEmits(t *testing.T) {
	client := &fakeAuthClient{token: &auth.Token{UID: "u1"}}
	tracker := NewTracker()
	var got []EventType
	tracker.Subscribe(func(_ context.Context, e Event) { got = append(got, e.Type) })

	g := NewGateway(client, &fakeSender{}, tracker, "")
	ctx := helpers.TestCtx()
	if _, err := g.VerifyToken(ctx, "t"); err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if err := g.SignOut(ctx, models.User{UID: "u1"}); err != nil {
		t.Fatalf("SignOut error: %v", err)
	}
	if _, err := g.VerifyToken(ctx, "t"); err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}

	if client.revokedUID != "u1" {
		t.Fatalf("expected refresh tokens revoked for u1, got %q", client.revokedUID)
	}
	want := []EventType{SignedIn, SignedOut, SignedIn}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestSignOutRevokeFailureDoesNotEmit(t *testing.T) {
	client := &fakeAuthClient{revokeErr: errors.New("unavailable")}
	tracker := NewTracker()
	emitted := false
	tracker.Subscribe(func(context.Context, Event) { emitted = true })

	err := NewGateway(client, &fakeSender{}, tracker, "").SignOut(helpers.TestCtx(), models.User{UID: "u1"})
	var extErr *errs.ExternalServiceError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if emitted {
		t.Fatalf("no event expected when revoke fails")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	tracker := NewTracker()
	calls := 0
	unsubscribe := tracker.Subscribe(func(context.Context, Event) { calls++ })
	if tracker.Listeners() != 1 {
		t.Fatalf("expected one listener")
	}

	unsubscribe()
	unsubscribe()
	tracker.SignOut(helpers.TestCtx(), models.User{UID: "u1"})

	if calls != 0 || tracker.Listeners() != 0 {
		t.Fatalf("listener still registered: calls=%d listeners=%d", calls, tracker.Listeners())
	}
}

func TestSendSignInLink(t *testing.T) {
	client := &fakeAuthClient{link: "https://auth.example.com/oob?code=1"}
	sender := &fakeSender{}
	g := NewGateway(client, sender, NewTracker(), "https://app.example.com/finish")

	if err := g.SendSignInLink(helpers.TestCtx(), " jane@example.com ", ""); err != nil {
		t.Fatalf("SendSignInLink error: %v", err)
	}
	if client.lastEmail != "jane@example.com" {
		t.Fatalf("email not trimmed: %q", client.lastEmail)
	}
	if client.lastSettings == nil || client.lastSettings.URL != "https://app.example.com/finish" || !client.lastSettings.HandleCodeInApp {
		t.Fatalf("unexpected action settings: %+v", client.lastSettings)
	}
	if sender.calls != 1 || sender.link != client.link {
		t.Fatalf("link not delivered: %+v", sender)
	}
}

func TestSendSignInLinkValidation(t *testing.T) {
	client := &fakeAuthClient{}
	sender := &fakeSender{}
	g := NewGateway(client, sender, NewTracker(), "")

	var vErr *errs.ValidationError
	if err := g.SendSignInLink(helpers.TestCtx(), "not-an-email", "https://x"); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for bad email, got %v", err)
	}
	if err := g.SendSignInLink(helpers.TestCtx(), "jane@example.com", ""); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError without redirect, got %v", err)
	}
	if sender.calls != 0 {
		t.Fatalf("nothing should be sent")
	}
}

func TestCurrentUser(t *testing.T) {
	client := &fakeAuthClient{record: &auth.UserRecord{UserInfo: &auth.UserInfo{UID: "u1", Email: "jane@example.com"}}}
	user, err := NewGateway(client, &fakeSender{}, NewTracker(), "").CurrentUser(helpers.TestCtx(), "u1")
	if err != nil {
		t.Fatalf("CurrentUser error: %v", err)
	}
	if user.UID != "u1" || user.Email != "jane@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}
