package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/verify-dispatch/internal/domain"
	"github.com/verify-dispatch/internal/pkg/link"
)

// --- mocks ---

type mockResolver struct{ mock.Mock }

func (m *mockResolver) Resolve(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, apiKey string, msg *domain.EmailMessage) error {
	return m.Called(ctx, apiKey, msg).Error(0)
}

type mockRecorder struct{ mock.Mock }

func (m *mockRecorder) Record(ctx context.Context, rec *domain.VerificationRecord) error {
	return m.Called(ctx, rec).Error(0)
}

type mockArchiver struct{ mock.Mock }

func (m *mockArchiver) Archive(ctx context.Context, key, body string) error {
	return m.Called(ctx, key, body).Error(0)
}

// --- builder ---

func newService(cr *mockResolver, ml *mockMailer, rec *mockRecorder, ar *mockArchiver, tokens TokenSource) Service {
	d := ServiceDeps{
		Credentials:       cr,
		Tokens:            tokens,
		Links:             &link.Builder{Scheme: "http", Domain: "cloudjourney.me"},
		Mailer:            ml,
		From:              "noreply@em7116.cloudjourney.me",
		UnsubscribeMailto: "unsubscribe@em7116.cloudjourney.me",
	}
	// nil *mockRecorder must stay a nil interface, or the pipeline would
	// treat persistence as enabled.
	if rec != nil {
		d.Recorder = rec
	}
	if ar != nil {
		d.Archiver = ar
	}
	return NewService(d)
}

// --- Dispatch ---

func TestDispatch_HappyPath_CallerToken(t *testing.T) {
	cr := &mockResolver{}
	ml := &mockMailer{}
	cr.On("Resolve", mock.Anything).Return("SG.key", nil)
	ml.On("Send", mock.Anything, "SG.key", mock.MatchedBy(func(msg *domain.EmailMessage) bool {
		return msg.To == "a@example.com" &&
			msg.Subject == "Verify Your Email Address" &&
			strings.Contains(msg.PlainText, "http://cloudjourney.me/verify?token=abc123") &&
			strings.Contains(msg.HTML, `href="http://cloudjourney.me/verify?token=abc123"`) &&
			msg.ListUnsubscribe == "<mailto:unsubscribe@em7116.cloudjourney.me>, <https://cloudjourney.me/unsubscribe>"
	})).Return(nil)

	svc := newService(cr, ml, nil, nil, CallerTokens())
	msg, err := svc.Dispatch(context.Background(), []byte(`{"email":"a@example.com","verification_token":"abc123"}`))

	require.NoError(t, err)
	assert.Equal(t, SuccessMessage, msg)
	cr.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestDispatch_MissingEmail_NoNetworkCall(t *testing.T) {
	cr := &mockResolver{}
	ml := &mockMailer{}

	svc := newService(cr, ml, nil, nil, CallerTokens())
	_, err := svc.Dispatch(context.Background(), []byte(`{"verification_token":"abc123"}`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	cr.AssertNotCalled(t, "Resolve", mock.Anything)
	ml.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_MissingToken_NoNetworkCall(t *testing.T) {
	cr := &mockResolver{}
	ml := &mockMailer{}

	svc := newService(cr, ml, nil, nil, CallerTokens())
	_, err := svc.Dispatch(context.Background(), []byte(`{"email":"a@example.com"}`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	cr.AssertNotCalled(t, "Resolve", mock.Anything)
	ml.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_MissingUserID_DerivedMode(t *testing.T) {
	cr := &mockResolver{}
	ml := &mockMailer{}

	svc := newService(cr, ml, nil, nil, DerivedTokens(nil))
	_, err := svc.Dispatch(context.Background(), []byte(`{"email":"a@example.com"}`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	cr.AssertNotCalled(t, "Resolve", mock.Anything)
}

func TestDispatch_CredentialFailure(t *testing.T) {
	cr := &mockResolver{}
	ml := &mockMailer{}
	cr.On("Resolve", mock.Anything).Return("", errors.New("secretsmanager: access denied"))

	svc := newService(cr, ml, nil, nil, CallerTokens())
	_, err := svc.Dispatch(context.Background(), []byte(`{"email":"a@example.com","verification_token":"abc123"}`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCredential))
	ml.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_ProviderRejects_RecorderNeverCalled(t *testing.T) {
	cr := &mockResolver{}
	ml := &mockMailer{}
	rec := &mockRecorder{}
	cr.On("Resolve", mock.Anything).Return("SG.key", nil)
	ml.On("Send", mock.Anything, "SG.key", mock.Anything).Return(errors.New("sendgrid rejected message: status 401"))

	svc := newService(cr, ml, rec, nil, CallerTokens())
	_, err := svc.Dispatch(context.Background(), []byte(`{"email":"a@example.com","verification_token":"abc123"}`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDelivery))
	rec.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestDispatch_RecorderFailure_AfterSend(t *testing.T) {
	cr := &mockResolver{}
	ml := &mockMailer{}
	rec := &mockRecorder{}
	cr.On("Resolve", mock.Anything).Return("SG.key", nil)
	ml.On("Send", mock.Anything, "SG.key", mock.Anything).Return(nil)
	rec.On("Record", mock.Anything, mock.AnythingOfType("*domain.VerificationRecord")).Return(errors.New("insert verification: connection refused"))

	svc := newService(cr, ml, rec, nil, CallerTokens())
	_, err := svc.Dispatch(context.Background(), []byte(`{"email":"a@example.com","verification_token":"abc123"}`))

	// The email already went out; the response still reports failure.
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPersistence))
	ml.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestDispatch_WrappedAndDirectEquivalent(t *testing.T) {
	direct := []byte(`{"email":"a@example.com","verification_token":"abc123"}`)
	wrapped := []byte(`{"Records":[{"Sns":{"Message":"{\"email\":\"a@example.com\",\"verification_token\":\"abc123\"}"}}]}`)

	run := func(event []byte) *domain.EmailMessage {
		cr := &mockResolver{}
		ml := &mockMailer{}
		cr.On("Resolve", mock.Anything).Return("SG.key", nil)
		var got *domain.EmailMessage
		ml.On("Send", mock.Anything, "SG.key", mock.Anything).Run(func(args mock.Arguments) {
			got = args.Get(2).(*domain.EmailMessage)
		}).Return(nil)

		svc := newService(cr, ml, nil, nil, CallerTokens())
		msg, err := svc.Dispatch(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, SuccessMessage, msg)
		return got
	}

	fromDirect := run(direct)
	fromWrapped := run(wrapped)
	assert.Equal(t, fromDirect.To, fromWrapped.To)
	assert.Equal(t, fromDirect.PlainText, fromWrapped.PlainText)
	assert.Equal(t, fromDirect.HTML, fromWrapped.HTML)
}

func TestDispatch_DerivedToken_RecordMatchesMessage(t *testing.T) {
	cr := &mockResolver{}
	ml := &mockMailer{}
	rec := &mockRecorder{}
	cr.On("Resolve", mock.Anything).Return("SG.key", nil)

	var sent *domain.EmailMessage
	ml.On("Send", mock.Anything, "SG.key", mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(2).(*domain.EmailMessage)
	}).Return(nil)

	var recorded *domain.VerificationRecord
	rec.On("Record", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded = args.Get(1).(*domain.VerificationRecord)
	}).Return(nil)

	svc := newService(cr, ml, rec, nil, DerivedTokens(nil))
	before := time.Now().UTC()
	_, err := svc.Dispatch(context.Background(), []byte(`{"email":"a@example.com","user_id":42}`))
	require.NoError(t, err)

	require.NotNil(t, recorded)
	assert.Equal(t, "42", recorded.UserID)
	assert.Equal(t, "a@example.com", recorded.Email)
	assert.True(t, strings.HasPrefix(recorded.VerificationToken, "42:"))
	assert.False(t, recorded.IsVerified)
	assert.WithinDuration(t, before.Add(TokenTTL), recorded.ExpirationTime, 5*time.Second)

	// The same token lands in the link the user receives.
	require.NotNil(t, sent)
	assert.Contains(t, sent.PlainText, "/verify?token="+recorded.VerificationToken)
}

func TestDispatch_ArchiveFailure_DoesNotFailRequest(t *testing.T) {
	cr := &mockResolver{}
	ml := &mockMailer{}
	ar := &mockArchiver{}
	cr.On("Resolve", mock.Anything).Return("SG.key", nil)
	ml.On("Send", mock.Anything, "SG.key", mock.Anything).Return(nil)
	ar.On("Archive", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "dispatches/") && strings.HasSuffix(key, ".txt")
	}), mock.Anything).Return(errors.New("s3 put object: no such bucket"))

	svc := newService(cr, ml, nil, ar, CallerTokens())
	msg, err := svc.Dispatch(context.Background(), []byte(`{"email":"a@example.com","verification_token":"abc123"}`))

	require.NoError(t, err)
	assert.Equal(t, SuccessMessage, msg)
	ar.AssertExpectations(t)
}

func TestDispatch_LinkConstructionFailure(t *testing.T) {
	cr := &mockResolver{}
	ml := &mockMailer{}
	cr.On("Resolve", mock.Anything).Return("SG.key", nil)

	svc := NewService(ServiceDeps{
		Credentials: cr,
		Tokens:      CallerTokens(),
		Links:       &link.Builder{Scheme: "http"}, // no domain configured
		Mailer:      ml,
	})
	_, err := svc.Dispatch(context.Background(), []byte(`{"email":"a@example.com","verification_token":"abc123"}`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLinkConstruction))
	ml.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}
