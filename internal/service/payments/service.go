package payments

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
	ledgerClient "github.com/m04kA/SMC-MeetingService/internal/integrations/ledger"
	paymentRepo "github.com/m04kA/SMC-MeetingService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-MeetingService/internal/service/payments/models"
)

// referenceSize размер reference в байтах до base58-кодирования
const referenceSize = 32

// Service сервис верификации платежей
// Единственный владелец переходов статуса PaymentTransaction:
// pending -> confirmed | pending -> failed, терминальные статусы неизменны
type Service struct {
	repo         PaymentRepository
	ledger       LedgerClient
	meetingTypes map[string]domain.MeetingTypeConfig
	recipient    string // Адрес кошелька для приема платежей
	finality     string // Требуемая глубина подтверждения
	label        string // Подпись в платежном запросе
	logger       Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(
	repo PaymentRepository,
	ledger LedgerClient,
	meetingTypes map[string]domain.MeetingTypeConfig,
	recipient string,
	finality string,
	label string,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		ledger:       ledger,
		meetingTypes: meetingTypes,
		recipient:    recipient,
		finality:     finality,
		label:        label,
		logger:       logger,
	}
}

// Initialize создает pending-транзакцию и возвращает платежный запрос
// Вызов не имеет побочных эффектов в леджере
func (s *Service) Initialize(ctx context.Context, req *models.InitializePaymentRequest) (*models.InitializePaymentResponse, error) {
	s.logger.Info("InitializePayment: meeting_type=%s", req.MeetingType)

	meetingType, ok := s.meetingTypes[req.MeetingType]
	if !ok {
		s.logger.Warn("InitializePayment: unknown meeting type %q", req.MeetingType)
		return nil, ErrUnknownMeetingType
	}

	if meetingType.IsFree() {
		s.logger.Warn("InitializePayment: meeting type %q does not require payment", req.MeetingType)
		return nil, ErrPaymentNotRequired
	}

	reference, err := generateReference()
	if err != nil {
		s.logger.Error("InitializePayment: failed to generate reference: %v", err)
		return nil, fmt.Errorf("%w: failed to generate reference: %v", ErrInternal, err)
	}

	tx := &domain.PaymentTransaction{
		ID:          uuid.NewString(),
		MeetingType: meetingType.Name,
		Amount:      meetingType.Price,
		Reference:   reference,
		Status:      domain.PaymentPending,
		UserID:      req.UserID,
	}

	created, err := s.repo.Create(ctx, tx)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrReferenceExists) {
			// Коллизия 32 криптослучайных байт невозможна на исправной системе -
			// это фатальная ошибка конфигурации, не повод для тихого ретрая
			s.logger.Error("InitializePayment: reference collision for %s", reference)
			return nil, ErrReferenceCollision
		}
		s.logger.Error("InitializePayment: failed to persist transaction: %v", err)
		return nil, fmt.Errorf("%w: failed to persist transaction: %v", ErrInternal, err)
	}

	message := fmt.Sprintf("%s (%d min)", meetingType.Name, meetingType.DurationMinutes)
	paymentRequest := domain.PaymentRequest{
		Recipient: s.recipient,
		Amount:    meetingType.Price,
		Reference: reference,
		Label:     s.label,
		Message:   message,
		URL:       encodePaymentURL(s.recipient, meetingType.Price, reference, s.label, message),
	}

	s.logger.Info("InitializePayment: created transaction id=%s, reference=%s, amount=%v",
		created.ID, reference, meetingType.Price)

	return &models.InitializePaymentResponse{
		TransactionID:  created.ID,
		Reference:      reference,
		PaymentRequest: paymentRequest,
	}, nil
}

// Verify проверяет платеж по леджеру и при необходимости выполняет
// переход pending -> confirmed | failed
//
// Семантика:
// - терминальная транзакция: сохраненный результат, леджер не опрашивается
// - транзакция не найдена в леджере: pending, вызывающий поллит дальше
// - перевод найден и совпадает: confirmed + signature
// - перевод найден, получатель/сумма не совпадают: failed
// - леджер недоступен: ErrLedgerUnavailable, статус не меняется
//
// Переход выполняется атомарным CAS: из конкурентных вызовов Verify
// переход делает ровно один, остальные видят терминальный результат
func (s *Service) Verify(ctx context.Context, transactionID string) (*models.VerifyPaymentResponse, error) {
	tx, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrTransactionNotFound) {
			s.logger.Warn("VerifyPayment: transaction id=%s not found", transactionID)
			return nil, ErrTransactionNotFound
		}
		s.logger.Error("VerifyPayment: failed to load transaction id=%s: %v", transactionID, err)
		return nil, fmt.Errorf("%w: failed to load transaction: %v", ErrInternal, err)
	}

	// Идемпотентный быстрый путь: терминальный статус уже известен
	if tx.IsTerminal() {
		s.logger.Info("VerifyPayment: transaction id=%s already terminal (%s)", tx.ID, tx.Status)
		return &models.VerifyPaymentResponse{
			TransactionID: tx.ID,
			MeetingType:   tx.MeetingType,
			Status:        tx.Status,
			Signature:     tx.Signature,
		}, nil
	}

	proof, err := s.ledger.FindTransactionByReference(ctx, tx.Reference, s.finality)
	if err != nil {
		if errors.Is(err, ledgerClient.ErrTransactionNotFound) {
			// Ожидаемый исход при поллинге: перевода еще нет
			s.logger.Info("VerifyPayment: no ledger transaction yet for reference=%s", tx.Reference)
			return &models.VerifyPaymentResponse{
				TransactionID: tx.ID,
				MeetingType:   tx.MeetingType,
				Status:        domain.PaymentPending,
			}, nil
		}
		// Недоступность леджера никогда не делает транзакцию терминальной
		s.logger.Warn("VerifyPayment: ledger unavailable for id=%s: %v", tx.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}

	validationErr := s.ledger.ValidateTransfer(proof, s.recipient, tx.Amount, tx.Reference)
	if validationErr == nil {
		return s.confirm(ctx, tx, proof.Signature)
	}

	if errors.Is(validationErr, ledgerClient.ErrRecipientMismatch) ||
		errors.Is(validationErr, ledgerClient.ErrAmountMismatch) {
		s.logger.Warn("VerifyPayment: transfer mismatch for id=%s: %v", tx.ID, validationErr)
		return s.fail(ctx, tx)
	}

	// Reference mismatch или иной некорректный proof: узел вернул чужую
	// транзакцию, терминальный переход по таким данным запрещен
	s.logger.Error("VerifyPayment: invalid proof for id=%s: %v", tx.ID, validationErr)
	return nil, fmt.Errorf("%w: invalid proof: %v", ErrInternal, validationErr)
}

func (s *Service) confirm(ctx context.Context, tx *domain.PaymentTransaction, signature string) (*models.VerifyPaymentResponse, error) {
	err := s.repo.Confirm(ctx, tx.ID, signature)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrAlreadyTerminal) {
			// Конкурентная верификация успела раньше - возвращаем её результат
			return s.reloadTerminal(ctx, tx.ID)
		}
		s.logger.Error("VerifyPayment: failed to confirm id=%s: %v", tx.ID, err)
		return nil, fmt.Errorf("%w: failed to confirm: %v", ErrInternal, err)
	}

	s.logger.Info("VerifyPayment: transaction id=%s confirmed, signature=%s", tx.ID, signature)
	return &models.VerifyPaymentResponse{
		TransactionID: tx.ID,
		MeetingType:   tx.MeetingType,
		Status:        domain.PaymentConfirmed,
		Signature:     &signature,
	}, nil
}

func (s *Service) fail(ctx context.Context, tx *domain.PaymentTransaction) (*models.VerifyPaymentResponse, error) {
	err := s.repo.Fail(ctx, tx.ID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrAlreadyTerminal) {
			return s.reloadTerminal(ctx, tx.ID)
		}
		s.logger.Error("VerifyPayment: failed to mark id=%s failed: %v", tx.ID, err)
		return nil, fmt.Errorf("%w: failed to mark failed: %v", ErrInternal, err)
	}

	s.logger.Info("VerifyPayment: transaction id=%s marked failed", tx.ID)
	return &models.VerifyPaymentResponse{
		TransactionID: tx.ID,
		MeetingType:   tx.MeetingType,
		Status:        domain.PaymentFailed,
	}, nil
}

func (s *Service) reloadTerminal(ctx context.Context, id string) (*models.VerifyPaymentResponse, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to reload transaction: %v", ErrInternal, err)
	}

	return &models.VerifyPaymentResponse{
		TransactionID: tx.ID,
		MeetingType:   tx.MeetingType,
		Status:        tx.Status,
		Signature:     tx.Signature,
	}, nil
}

// generateReference генерирует криптографически уникальный корреляционный
// токен в base58 - кодировке, нативной для леджера
func generateReference() (string, error) {
	buf := make([]byte, referenceSize)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base58.Encode(buf), nil
}

// encodePaymentURL кодирует платежный запрос в URL,
// пригодный для рендера в сканируемый код
func encodePaymentURL(recipient string, amount float64, reference, label, message string) string {
	params := url.Values{}
	params.Set("amount", fmt.Sprintf("%g", amount))
	params.Set("reference", reference)
	params.Set("label", label)
	params.Set("message", message)
	return fmt.Sprintf("solana:%s?%s", recipient, params.Encode())
}
