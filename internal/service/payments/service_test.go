package payments

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-MeetingService/internal/infra/storage/payment"
	ledgerClient "github.com/m04kA/SMC-MeetingService/internal/integrations/ledger"
	"github.com/m04kA/SMC-MeetingService/internal/service/payments/models"
)

const (
	testRecipient = "RecipientWallet111"
	testFinality  = "finalized"
	testLabel     = "Test Consulting"
)

var testMeetingTypes = map[string]domain.MeetingTypeConfig{
	"intro": {
		Name:            "intro",
		DurationMinutes: 30,
		RequiresPayment: false,
	},
	"consultation": {
		Name:            "consultation",
		DurationMinutes: 60,
		Price:           0.5,
		RequiresPayment: true,
	},
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakePaymentRepo повторяет CAS-семантику реального репозитория
type fakePaymentRepo struct {
	mu          sync.Mutex
	txs         map[string]*domain.PaymentTransaction
	confirms    int
	fails       int
	transitions int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{txs: make(map[string]*domain.PaymentTransaction)}
}

func (r *fakePaymentRepo) Create(_ context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.txs {
		if existing.Reference == tx.Reference {
			return nil, paymentRepo.ErrReferenceExists
		}
	}
	stored := *tx
	r.txs[tx.ID] = &stored
	result := stored
	return &result, nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string) (*domain.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, paymentRepo.ErrTransactionNotFound
	}
	result := *tx
	return &result, nil
}

func (r *fakePaymentRepo) Confirm(_ context.Context, id string, signature string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirms++
	tx, ok := r.txs[id]
	if !ok {
		return paymentRepo.ErrTransactionNotFound
	}
	if tx.Status.IsTerminal() {
		return paymentRepo.ErrAlreadyTerminal
	}
	tx.Status = domain.PaymentConfirmed
	tx.Signature = &signature
	r.transitions++
	return nil
}

func (r *fakePaymentRepo) Fail(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fails++
	tx, ok := r.txs[id]
	if !ok {
		return paymentRepo.ErrTransactionNotFound
	}
	if tx.Status.IsTerminal() {
		return paymentRepo.ErrAlreadyTerminal
	}
	tx.Status = domain.PaymentFailed
	r.transitions++
	return nil
}

// fakeLedger настраиваемый клиент леджера со счетчиком вызовов
type fakeLedger struct {
	mu     sync.Mutex
	proof  *ledgerClient.TransactionProof
	err    error
	calls  int
	client ledgerClient.Client
}

func (l *fakeLedger) FindTransactionByReference(context.Context, string, string) (*ledgerClient.TransactionProof, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.proof, nil
}

func (l *fakeLedger) ValidateTransfer(proof *ledgerClient.TransactionProof, recipient string, amount float64, reference string) error {
	// Реальная валидация - чистая функция, используем её же
	return l.client.ValidateTransfer(proof, recipient, amount, reference)
}

func newService(repo *fakePaymentRepo, ledger *fakeLedger) *Service {
	return NewService(repo, ledger, testMeetingTypes, testRecipient, testFinality, testLabel, nopLogger{})
}

func initPayment(t *testing.T, svc *Service) *models.InitializePaymentResponse {
	t.Helper()
	resp, err := svc.Initialize(context.Background(), &models.InitializePaymentRequest{MeetingType: "consultation"})
	require.NoError(t, err)
	return resp
}

func TestInitialize(t *testing.T) {
	t.Run("unknown meeting type", func(t *testing.T) {
		svc := newService(newFakePaymentRepo(), &fakeLedger{})

		_, err := svc.Initialize(context.Background(), &models.InitializePaymentRequest{MeetingType: "nope"})

		assert.ErrorIs(t, err, ErrUnknownMeetingType)
	})

	t.Run("free meeting type", func(t *testing.T) {
		svc := newService(newFakePaymentRepo(), &fakeLedger{})

		_, err := svc.Initialize(context.Background(), &models.InitializePaymentRequest{MeetingType: "intro"})

		assert.ErrorIs(t, err, ErrPaymentNotRequired)
	})

	t.Run("creates pending transaction with payment request", func(t *testing.T) {
		repo := newFakePaymentRepo()
		svc := newService(repo, &fakeLedger{})

		resp := initPayment(t, svc)

		require.NotEmpty(t, resp.TransactionID)
		require.NotEmpty(t, resp.Reference)

		stored, err := repo.GetByID(context.Background(), resp.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPending, stored.Status)
		assert.Equal(t, 0.5, stored.Amount)
		assert.Equal(t, "consultation", stored.MeetingType)

		assert.Equal(t, testRecipient, resp.PaymentRequest.Recipient)
		assert.True(t, strings.HasPrefix(resp.PaymentRequest.URL, "solana:"+testRecipient))
		assert.Contains(t, resp.PaymentRequest.URL, resp.Reference)
	})

	t.Run("unique references across initializations", func(t *testing.T) {
		svc := newService(newFakePaymentRepo(), &fakeLedger{})

		first := initPayment(t, svc)
		second := initPayment(t, svc)

		assert.NotEqual(t, first.Reference, second.Reference)
		assert.NotEqual(t, first.TransactionID, second.TransactionID)
	})
}

func TestVerify(t *testing.T) {
	t.Run("transaction not found", func(t *testing.T) {
		svc := newService(newFakePaymentRepo(), &fakeLedger{})

		_, err := svc.Verify(context.Background(), "missing")

		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("stays pending while transfer absent in ledger", func(t *testing.T) {
		repo := newFakePaymentRepo()
		ledger := &fakeLedger{err: ledgerClient.ErrTransactionNotFound}
		svc := newService(repo, ledger)
		payment := initPayment(t, svc)

		resp, err := svc.Verify(context.Background(), payment.TransactionID)

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPending, resp.Status)
		assert.Nil(t, resp.Signature)
		assert.Equal(t, 0, repo.transitions)
	})

	t.Run("confirms matching transfer", func(t *testing.T) {
		repo := newFakePaymentRepo()
		ledger := &fakeLedger{}
		svc := newService(repo, ledger)
		payment := initPayment(t, svc)
		ledger.proof = &ledgerClient.TransactionProof{
			Signature: "sig111",
			Recipient: testRecipient,
			Amount:    0.5,
			Reference: payment.Reference,
		}

		resp, err := svc.Verify(context.Background(), payment.TransactionID)

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentConfirmed, resp.Status)
		require.NotNil(t, resp.Signature)
		assert.Equal(t, "sig111", *resp.Signature)
		assert.Equal(t, "consultation", resp.MeetingType)
	})

	t.Run("fails on amount mismatch", func(t *testing.T) {
		repo := newFakePaymentRepo()
		ledger := &fakeLedger{}
		svc := newService(repo, ledger)
		payment := initPayment(t, svc)
		ledger.proof = &ledgerClient.TransactionProof{
			Signature: "sig111",
			Recipient: testRecipient,
			Amount:    0.4,
			Reference: payment.Reference,
		}

		resp, err := svc.Verify(context.Background(), payment.TransactionID)

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentFailed, resp.Status)
		assert.Nil(t, resp.Signature)
	})

	t.Run("fails on recipient mismatch", func(t *testing.T) {
		repo := newFakePaymentRepo()
		ledger := &fakeLedger{}
		svc := newService(repo, ledger)
		payment := initPayment(t, svc)
		ledger.proof = &ledgerClient.TransactionProof{
			Signature: "sig111",
			Recipient: "SomeoneElse111",
			Amount:    0.5,
			Reference: payment.Reference,
		}

		resp, err := svc.Verify(context.Background(), payment.TransactionID)

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentFailed, resp.Status)
	})

	t.Run("reference mismatch never becomes terminal", func(t *testing.T) {
		repo := newFakePaymentRepo()
		ledger := &fakeLedger{}
		svc := newService(repo, ledger)
		payment := initPayment(t, svc)
		ledger.proof = &ledgerClient.TransactionProof{
			Signature: "sig111",
			Recipient: testRecipient,
			Amount:    0.5,
			Reference: "some-other-reference",
		}

		_, err := svc.Verify(context.Background(), payment.TransactionID)

		assert.ErrorIs(t, err, ErrInternal)
		stored, getErr := repo.GetByID(context.Background(), payment.TransactionID)
		require.NoError(t, getErr)
		assert.Equal(t, domain.PaymentPending, stored.Status)
	})

	t.Run("ledger outage never becomes terminal", func(t *testing.T) {
		repo := newFakePaymentRepo()
		ledger := &fakeLedger{err: errors.New("connection refused")}
		svc := newService(repo, ledger)
		payment := initPayment(t, svc)

		_, err := svc.Verify(context.Background(), payment.TransactionID)

		assert.ErrorIs(t, err, ErrLedgerUnavailable)
		stored, getErr := repo.GetByID(context.Background(), payment.TransactionID)
		require.NoError(t, getErr)
		assert.Equal(t, domain.PaymentPending, stored.Status)
	})

	t.Run("terminal transaction skips ledger", func(t *testing.T) {
		repo := newFakePaymentRepo()
		ledger := &fakeLedger{}
		svc := newService(repo, ledger)
		payment := initPayment(t, svc)
		ledger.proof = &ledgerClient.TransactionProof{
			Signature: "sig111",
			Recipient: testRecipient,
			Amount:    0.5,
			Reference: payment.Reference,
		}

		_, err := svc.Verify(context.Background(), payment.TransactionID)
		require.NoError(t, err)
		callsAfterConfirm := ledger.calls

		resp, err := svc.Verify(context.Background(), payment.TransactionID)

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentConfirmed, resp.Status)
		assert.Equal(t, callsAfterConfirm, ledger.calls)
	})

	t.Run("concurrent verify transitions exactly once", func(t *testing.T) {
		repo := newFakePaymentRepo()
		ledger := &fakeLedger{}
		svc := newService(repo, ledger)
		payment := initPayment(t, svc)
		ledger.proof = &ledgerClient.TransactionProof{
			Signature: "sig111",
			Recipient: testRecipient,
			Amount:    0.5,
			Reference: payment.Reference,
		}

		const workers = 16
		var wg sync.WaitGroup
		results := make([]*models.VerifyPaymentResponse, workers)
		errs := make([]error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = svc.Verify(context.Background(), payment.TransactionID)
			}(i)
		}
		wg.Wait()

		for i := 0; i < workers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, domain.PaymentConfirmed, results[i].Status)
			require.NotNil(t, results[i].Signature)
			assert.Equal(t, "sig111", *results[i].Signature)
		}
		assert.Equal(t, 1, repo.transitions)
	})
}
