package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/saudapakka/saudapakka-mandate"
	"github.com/saudapakka/saudapakka-mandate/internal/domain"
	"github.com/saudapakka/saudapakka-mandate/internal/lifecycle"
	"github.com/saudapakka/saudapakka-mandate/letter"
	"github.com/saudapakka/saudapakka-mandate/signature"
)

var tracer = otel.Tracer("usecase")

const (
	eventCreate = "create"
	eventAccept = "accept"
	eventReject = "reject"
	eventCancel = "cancel"
	eventRenew  = "renew"
	eventExpire = "expire"

	unsavedSignature = "unsaved"
)

type MandateUsecase struct {
	config        domain.Config
	authority     lifecycle.Authority
	repo          MandateRepository
	properties    PropertyRepository
	users         UserRepository
	brokers       BrokerDirectory
	signatures    SignatureStore
	notifications *NotificationUsecase
	metrics       Metrics
	now           func() time.Time
	newID         func() string
}

func NewMandateUsecase(
	config domain.Config,
	repo MandateRepository,
	properties PropertyRepository,
	users UserRepository,
	brokers BrokerDirectory,
	signatures SignatureStore,
	notifications *NotificationUsecase,
	metrics Metrics,
) *MandateUsecase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &MandateUsecase{
		config:        config,
		authority:     lifecycle.New(config),
		repo:          repo,
		properties:    properties,
		users:         users,
		brokers:       brokers,
		signatures:    signatures,
		notifications: notifications,
		metrics:       metrics,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// List returns the mandates visible to the viewer, with lapsed ones expired first.
func (uc *MandateUsecase) List(ctx context.Context, viewer domain.Viewer) ([]domain.MandateDetail, error) {
	ctx, span := tracer.Start(ctx, "Mandate.Usecase.List")
	defer span.End()

	details, err := uc.repo.List(ctx, viewer)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "MandateUsecase.List: repo.List failed")
	}

	now := uc.now()
	for i := range details {
		details[i] = uc.settle(ctx, details[i], now)
	}
	return details, nil
}

// Get returns a mandate the viewer may see. Mandates outside the viewer's scope
// are reported as not found.
func (uc *MandateUsecase) Get(ctx context.Context, viewer domain.Viewer, id string) (domain.MandateDetail, error) {
	ctx, span := tracer.Start(ctx, "Mandate.Usecase.Get")
	defer span.End()
	span.SetAttributes(attribute.String("mandate.id", id))

	detail, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.MandateDetail{}, err
	}
	if !lifecycle.CanView(detail.Mandate, viewer) {
		return domain.MandateDetail{}, domain.NotFoundError{Resource: "mandate"}
	}
	return uc.settle(ctx, detail, uc.now()), nil
}

// settle persists any time-driven expiry so reads never show a lapsed mandate as open.
func (uc *MandateUsecase) settle(ctx context.Context, detail domain.MandateDetail, now time.Time) domain.MandateDetail {
	expired, changed := uc.authority.Expire(detail.Mandate, now)
	if !changed {
		return detail
	}

	err := uc.repo.Update(ctx, expired, detail.Mandate.Status)
	switch {
	case err == nil:
		uc.metrics.Transition(eventExpire, nil)
		detail.Mandate = expired
	case errors.Is(err, domain.ErrStaleState):
		if fresh, gerr := uc.repo.Get(ctx, detail.Mandate.ID); gerr == nil {
			detail = fresh
		}
	default:
		slog.WarnContext(
			ctx, "failed to persist lazy expiry",
			slog.String("error", err.Error()),
			slog.String("mandate", detail.Mandate.ID),
			slog.String("module", "mandate"),
		)
		detail.Mandate = expired
	}
	return detail
}

// Create opens a PENDING mandate signed by the initiator.
func (uc *MandateUsecase) Create(ctx context.Context, viewer domain.Viewer, input domain.CreateMandateInput) (domain.MandateDetail, error) {
	ctx, span := tracer.Start(ctx, "Mandate.Usecase.Create")
	defer span.End()

	detail, err := uc.create(ctx, viewer, input)
	uc.metrics.Transition(eventCreate, err)
	if err != nil {
		span.RecordError(err)
	}
	return detail, err
}

func (uc *MandateUsecase) create(ctx context.Context, viewer domain.Viewer, input domain.CreateMandateInput) (domain.MandateDetail, error) {
	if err := input.Validate(); err != nil {
		return domain.MandateDetail{}, err
	}
	if err := signature.Check(input.Signature); err != nil {
		return domain.MandateDetail{}, domain.Invalid(input.SignatureField(), "Upload a valid signature image.")
	}

	property, err := uc.properties.Get(ctx, strings.TrimSpace(input.PropertyID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.MandateDetail{}, domain.Invalid("property_item", "Selected property does not exist.")
		}
		return domain.MandateDetail{}, errors.Wrap(err, "MandateUsecase.Create: properties.Get failed")
	}

	if input.InitiatedBy == saudapakka.InitiatedBySeller && input.DealType == saudapakka.DealWithBroker {
		if _, err := uc.brokers.Get(ctx, strings.TrimSpace(input.BrokerID)); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.MandateDetail{}, domain.Invalid("broker", "Selected broker is not an active broker.")
			}
			return domain.MandateDetail{}, errors.Wrap(err, "MandateUsecase.Create: brokers.Get failed")
		}
	}

	ref, err := uc.signatures.Put(ctx, input.Signature)
	if err != nil {
		return domain.MandateDetail{}, errors.Wrap(err, "MandateUsecase.Create: signatures.Put failed")
	}

	now := uc.now()
	m, err := uc.authority.Open(lifecycle.OpenInput{
		ID:        uc.newID(),
		Property:  property,
		Initiator: viewer,
		Input:     input,
		Signature: ref,
	}, now)
	if err != nil {
		uc.discard(ctx, ref)
		return domain.MandateDetail{}, err
	}

	if err := uc.repo.Create(ctx, m); err != nil {
		uc.discard(ctx, ref)
		if errors.Is(err, domain.ErrOpenMandateExists) {
			return domain.MandateDetail{}, openMandateError()
		}
		return domain.MandateDetail{}, errors.Wrap(err, "MandateUsecase.Create: repo.Create failed")
	}

	detail, err := uc.repo.Get(ctx, m.ID)
	if err != nil {
		return domain.MandateDetail{}, errors.Wrap(err, "MandateUsecase.Create: repo.Get failed")
	}

	uc.notifyCounterparty(ctx, detail)
	return detail, nil
}

func openMandateError() error {
	return domain.Invalid("property_item", "This property already has an active or pending mandate. You must cancel or wait for it to expire before initiating a new one.")
}

// AcceptAndSign stores the counterparty signature and activates the mandate.
func (uc *MandateUsecase) AcceptAndSign(ctx context.Context, viewer domain.Viewer, id string, sig []byte) (domain.MandateDetail, error) {
	ctx, span := tracer.Start(ctx, "Mandate.Usecase.AcceptAndSign")
	defer span.End()
	span.SetAttributes(attribute.String("mandate.id", id))

	detail, err := uc.accept(ctx, viewer, id, sig)
	uc.metrics.Transition(eventAccept, err)
	if err != nil {
		span.RecordError(err)
	}
	return detail, err
}

func (uc *MandateUsecase) accept(ctx context.Context, viewer domain.Viewer, id string, sig []byte) (domain.MandateDetail, error) {
	current, err := uc.Get(ctx, viewer, id)
	if err != nil {
		return domain.MandateDetail{}, err
	}

	now := uc.now()
	if _, err := uc.authority.CheckAccept(current.Mandate, viewer, now); err != nil {
		return domain.MandateDetail{}, err
	}
	if len(sig) == 0 {
		return domain.MandateDetail{}, domain.InvalidTransition("Digital signature file is required to accept.")
	}
	if err := signature.Check(sig); err != nil {
		return domain.MandateDetail{}, domain.InvalidTransition("Upload a valid signature image.")
	}

	ref, err := uc.signatures.Put(ctx, sig)
	if err != nil {
		return domain.MandateDetail{}, errors.Wrap(err, "MandateUsecase.AcceptAndSign: signatures.Put failed")
	}

	next, err := uc.authority.Accept(current.Mandate, viewer, ref, now)
	if err != nil {
		uc.discard(ctx, ref)
		return domain.MandateDetail{}, err
	}

	if err := uc.commit(ctx, next, current.Mandate.Status); err != nil {
		uc.discard(ctx, ref)
		if errors.Is(err, domain.ErrStaleState) {
			return domain.MandateDetail{}, uc.refusal(ctx, viewer, id, func(m domain.Mandate, now time.Time) error {
				_, err := uc.authority.CheckAccept(m, viewer, now)
				return err
			})
		}
		return domain.MandateDetail{}, err
	}

	detail, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.MandateDetail{}, errors.Wrap(err, "MandateUsecase.AcceptAndSign: repo.Get failed")
	}

	uc.notifyInitiator(ctx, detail, domain.NotificationAccepted,
		fmt.Sprintf("Your mandate for %s has been accepted and signed.", detail.PropertyTitle))
	return detail, nil
}

// Reject closes a pending mandate with the counterparty's reason.
func (uc *MandateUsecase) Reject(ctx context.Context, viewer domain.Viewer, id, reason string) (domain.MandateDetail, error) {
	ctx, span := tracer.Start(ctx, "Mandate.Usecase.Reject")
	defer span.End()
	span.SetAttributes(attribute.String("mandate.id", id))

	detail, err := uc.transition(ctx, viewer, id, func(m domain.Mandate, now time.Time) (domain.Mandate, error) {
		return uc.authority.Reject(m, viewer, reason, now)
	})
	uc.metrics.Transition(eventReject, err)
	if err != nil {
		span.RecordError(err)
		return domain.MandateDetail{}, err
	}

	uc.notifyInitiator(ctx, detail, domain.NotificationRejected,
		fmt.Sprintf("Your mandate request for %s was rejected. Reason: %s", detail.PropertyTitle, deref(detail.Mandate.RejectionReason)))
	return detail, nil
}

// Cancel terminates a pending or active mandate.
func (uc *MandateUsecase) Cancel(ctx context.Context, viewer domain.Viewer, id string) (domain.MandateDetail, error) {
	ctx, span := tracer.Start(ctx, "Mandate.Usecase.Cancel")
	defer span.End()
	span.SetAttributes(attribute.String("mandate.id", id))

	detail, err := uc.transition(ctx, viewer, id, func(m domain.Mandate, now time.Time) (domain.Mandate, error) {
		return uc.authority.Cancel(m, viewer, now)
	})
	uc.metrics.Transition(eventCancel, err)
	if err != nil {
		span.RecordError(err)
		return domain.MandateDetail{}, err
	}

	msg := fmt.Sprintf("The mandate for %s has been cancelled.", detail.PropertyTitle)
	for _, recipient := range partyUsers(detail.Mandate) {
		if recipient == viewer.UserID {
			continue
		}
		uc.notify(ctx, recipient, domain.NotificationCancelled, msg, detail.Mandate.ID)
	}
	return detail, nil
}

// transition loads, applies fn and commits with a status check.
func (uc *MandateUsecase) transition(
	ctx context.Context,
	viewer domain.Viewer,
	id string,
	fn func(domain.Mandate, time.Time) (domain.Mandate, error),
) (domain.MandateDetail, error) {
	current, err := uc.Get(ctx, viewer, id)
	if err != nil {
		return domain.MandateDetail{}, err
	}

	next, err := fn(current.Mandate, uc.now())
	if err != nil {
		return domain.MandateDetail{}, err
	}

	if err := uc.commit(ctx, next, current.Mandate.Status); err != nil {
		if errors.Is(err, domain.ErrStaleState) {
			return domain.MandateDetail{}, uc.refusal(ctx, viewer, id, func(m domain.Mandate, now time.Time) error {
				_, err := fn(m, now)
				return err
			})
		}
		return domain.MandateDetail{}, err
	}

	detail, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.MandateDetail{}, errors.Wrap(err, "MandateUsecase.transition: repo.Get failed")
	}
	return detail, nil
}

func (uc *MandateUsecase) commit(ctx context.Context, next domain.Mandate, from saudapakka.MandateStatus) error {
	err := uc.repo.Update(ctx, next, from)
	if err == nil || errors.Is(err, domain.ErrStaleState) {
		return err
	}
	return errors.Wrap(err, "MandateUsecase.commit: repo.Update failed")
}

// refusal explains a lost status check by re-running check against the fresh state.
func (uc *MandateUsecase) refusal(ctx context.Context, viewer domain.Viewer, id string, check func(domain.Mandate, time.Time) error) error {
	fresh, err := uc.Get(ctx, viewer, id)
	if err != nil {
		return err
	}
	if err := check(fresh.Mandate, uc.now()); err != nil {
		return err
	}
	return domain.InvalidTransition("This mandate was modified by someone else. Please refresh and try again.")
}

// Renew creates a pending sibling of an expired mandate. sig may be empty to reuse
// the renewer's previous signature.
func (uc *MandateUsecase) Renew(ctx context.Context, viewer domain.Viewer, id string, sig []byte) (domain.MandateDetail, error) {
	ctx, span := tracer.Start(ctx, "Mandate.Usecase.Renew")
	defer span.End()
	span.SetAttributes(attribute.String("mandate.id", id))

	detail, err := uc.renew(ctx, viewer, id, sig)
	uc.metrics.Transition(eventRenew, err)
	if err != nil {
		span.RecordError(err)
	}
	return detail, err
}

func (uc *MandateUsecase) renew(ctx context.Context, viewer domain.Viewer, id string, sig []byte) (domain.MandateDetail, error) {
	current, err := uc.Get(ctx, viewer, id)
	if err != nil {
		return domain.MandateDetail{}, err
	}

	var ref string
	if len(sig) > 0 {
		if err := signature.Check(sig); err != nil {
			return domain.MandateDetail{}, domain.InvalidTransition("Upload a valid signature image.")
		}
		// refuse before storing so no artifact is left behind
		if _, err := uc.authority.Renew(current.Mandate, viewer, lifecycle.RenewInput{Signature: unsavedSignature}, uc.now()); err != nil {
			return domain.MandateDetail{}, err
		}
		ref, err = uc.signatures.Put(ctx, sig)
		if err != nil {
			return domain.MandateDetail{}, errors.Wrap(err, "MandateUsecase.Renew: signatures.Put failed")
		}
	}

	renewed, err := uc.authority.Renew(current.Mandate, viewer, lifecycle.RenewInput{
		ID:        uc.newID(),
		Signature: ref,
	}, uc.now())
	if err != nil {
		uc.discard(ctx, ref)
		return domain.MandateDetail{}, err
	}

	if err := uc.repo.Create(ctx, renewed); err != nil {
		uc.discard(ctx, ref)
		if errors.Is(err, domain.ErrOpenMandateExists) {
			return domain.MandateDetail{}, domain.InvalidTransition("This property already has an active or pending mandate.")
		}
		return domain.MandateDetail{}, errors.Wrap(err, "MandateUsecase.Renew: repo.Create failed")
	}

	detail, err := uc.repo.Get(ctx, renewed.ID)
	if err != nil {
		return domain.MandateDetail{}, errors.Wrap(err, "MandateUsecase.Renew: repo.Get failed")
	}

	uc.notifyCounterpartyWith(ctx, detail, domain.NotificationRenewed,
		fmt.Sprintf("A renewal of the mandate for %s is awaiting your signature.", detail.PropertyTitle))
	return detail, nil
}

// Delete is an administrative hard delete, outside the state machine.
func (uc *MandateUsecase) Delete(ctx context.Context, viewer domain.Viewer, id string) error {
	ctx, span := tracer.Start(ctx, "Mandate.Usecase.Delete")
	defer span.End()

	if !viewer.IsStaff {
		return domain.NotAParty("Only staff can delete mandates.")
	}
	if _, err := uc.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "MandateUsecase.Delete: repo.Delete failed")
	}

	slog.InfoContext(
		ctx, "mandate deleted",
		slog.String("mandate", id),
		slog.String("by", viewer.UserID),
		slog.String("module", "mandate"),
	)
	return nil
}

func (uc *MandateUsecase) SearchBroker(ctx context.Context, mobile string) (domain.BrokerProfile, error) {
	ctx, span := tracer.Start(ctx, "Mandate.Usecase.SearchBroker")
	defer span.End()

	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return domain.BrokerProfile{}, domain.Invalid("mobile_number", "Mobile number required")
	}

	broker, err := uc.brokers.FindByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.BrokerProfile{}, domain.NotFoundError{Resource: "broker"}
		}
		return domain.BrokerProfile{}, errors.Wrap(err, "MandateUsecase.SearchBroker: brokers.FindByMobile failed")
	}
	return broker, nil
}

// Letter renders the mandate letter. Dates start at activation for signed mandates
// and at the current day otherwise.
func (uc *MandateUsecase) Letter(ctx context.Context, viewer domain.Viewer, id string) (string, error) {
	ctx, span := tracer.Start(ctx, "Mandate.Usecase.Letter")
	defer span.End()

	detail, err := uc.Get(ctx, viewer, id)
	if err != nil {
		return "", err
	}

	var property *saudapakka.Property
	p, err := uc.properties.Get(ctx, detail.Mandate.PropertyID)
	switch {
	case err == nil:
		wire := p.Wire()
		property = &wire
	case errors.Is(err, domain.ErrNotFound):
	default:
		return "", errors.Wrap(err, "MandateUsecase.Letter: properties.Get failed")
	}

	today := uc.now()
	if detail.Mandate.StartDate != nil {
		today = *detail.Mandate.StartDate
	}

	wire := detail.Wire(lifecycle.MyRole(detail.Mandate, viewer), uc.config.SignatureBaseURL)
	return letter.Render(letter.Input{
		Mandate:      &wire,
		Property:     property,
		PlatformName: uc.config.PlatformName,
		Jurisdiction: uc.config.Jurisdiction,
		Today:        today,
	}), nil
}

// SweepExpired expires lapsed mandates and sends one near-expiry warning per mandate.
func (uc *MandateUsecase) SweepExpired(ctx context.Context) (domain.SweepResult, error) {
	ctx, span := tracer.Start(ctx, "Mandate.Usecase.SweepExpired")
	defer span.End()

	var result domain.SweepResult
	now := uc.now()

	due, err := uc.repo.ListDue(ctx, now)
	if err != nil {
		span.RecordError(err)
		return result, errors.Wrap(err, "MandateUsecase.SweepExpired: repo.ListDue failed")
	}

	for _, detail := range due {
		from := detail.Mandate.Status
		expired, changed := uc.authority.Expire(detail.Mandate, now)
		if !changed {
			continue
		}
		if err := uc.repo.Update(ctx, expired, from); err != nil {
			if errors.Is(err, domain.ErrStaleState) {
				continue
			}
			span.RecordError(err)
			return result, errors.Wrap(err, "MandateUsecase.SweepExpired: repo.Update failed")
		}

		if from == saudapakka.StatusPending {
			result.PendingExpired++
		} else {
			result.ActiveExpired++
		}

		msg := fmt.Sprintf("The mandate for %s has expired.", detail.PropertyTitle)
		for _, recipient := range partyUsers(expired) {
			uc.notify(ctx, recipient, domain.NotificationExpired, msg, expired.ID)
		}
	}

	window := uc.config.WarningWindow
	expiring, err := uc.repo.ListExpiringBefore(ctx, now.Add(window))
	if err != nil {
		span.RecordError(err)
		return result, errors.Wrap(err, "MandateUsecase.SweepExpired: repo.ListExpiringBefore failed")
	}

	for _, detail := range expiring {
		if !uc.authority.NeedsWarning(detail.Mandate, now, window) {
			continue
		}
		marked, err := uc.repo.MarkNearExpiryNotified(ctx, detail.Mandate.ID)
		if err != nil {
			span.RecordError(err)
			return result, errors.Wrap(err, "MandateUsecase.SweepExpired: repo.MarkNearExpiryNotified failed")
		}
		if !marked {
			continue
		}
		result.Warnings++

		expiry := detail.Mandate.ExpiryDate.Format(letter.DateLayout)
		msg := fmt.Sprintf("Your mandate for %s expires on %s. Please renew if you wish to continue.", detail.PropertyTitle, expiry)
		for _, recipient := range partyUsers(detail.Mandate) {
			uc.notify(ctx, recipient, domain.NotificationExpiringSoon, msg, detail.Mandate.ID)
		}
	}

	uc.metrics.Sweep(result)
	slog.InfoContext(
		ctx, "mandate sweep finished",
		slog.Int("pending_expired", result.PendingExpired),
		slog.Int("active_expired", result.ActiveExpired),
		slog.Int("warnings", result.Warnings),
		slog.String("module", "mandate"),
	)
	return result, nil
}

// MyListings returns the properties owned by the viewer.
func (uc *MandateUsecase) MyListings(ctx context.Context, viewer domain.Viewer) ([]domain.Property, error) {
	return uc.properties.ListByOwner(ctx, viewer.UserID)
}

func (uc *MandateUsecase) Property(ctx context.Context, id string) (domain.Property, error) {
	return uc.properties.Get(ctx, id)
}

func (uc *MandateUsecase) notifyCounterparty(ctx context.Context, detail domain.MandateDetail) {
	m := detail.Mandate
	title := domain.NotificationMandateRequest
	if m.DealType == saudapakka.DealWithPlatform {
		title = domain.NotificationPlatformRequest
	}
	initiator := deref(detail.SellerName)
	if m.InitiatedBy == saudapakka.InitiatedByBroker {
		initiator = deref(detail.BrokerName)
	}
	uc.notifyCounterpartyWith(ctx, detail, title,
		fmt.Sprintf("%s has initiated a mandate request for %s.", initiator, detail.PropertyTitle))
}

func (uc *MandateUsecase) notifyCounterpartyWith(ctx context.Context, detail domain.MandateDetail, title, msg string) {
	m := detail.Mandate
	switch lifecycle.Counterparty(m) {
	case lifecycle.PartySeller:
		uc.notify(ctx, m.SellerID, title, msg, m.ID)
	case lifecycle.PartyBroker:
		uc.notify(ctx, deref(m.BrokerID), title, msg, m.ID)
	case lifecycle.PartyPlatform:
		staff, err := uc.users.ListStaff(ctx)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to list staff for notification",
				slog.String("error", err.Error()),
				slog.String("module", "mandate"),
			)
			return
		}
		for _, u := range staff {
			uc.notify(ctx, u.ID, title, msg, m.ID)
		}
	}
}

func (uc *MandateUsecase) notifyInitiator(ctx context.Context, detail domain.MandateDetail, title, msg string) {
	m := detail.Mandate
	recipient := m.SellerID
	if lifecycle.Initiator(m) == lifecycle.PartyBroker {
		recipient = deref(m.BrokerID)
	}
	uc.notify(ctx, recipient, title, msg, m.ID)
}

// notify never fails the surrounding transition.
func (uc *MandateUsecase) notify(ctx context.Context, recipient, title, msg, mandateID string) {
	if uc.notifications == nil || recipient == "" {
		return
	}
	if err := uc.notifications.Notify(ctx, recipient, title, msg, saudapakka.MandateActionURL(mandateID)); err != nil {
		slog.WarnContext(
			ctx, "failed to create notification",
			slog.String("error", err.Error()),
			slog.String("recipient", recipient),
			slog.String("module", "mandate"),
		)
	}
}

func (uc *MandateUsecase) discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := uc.signatures.Remove(ctx, ref); err != nil {
		slog.WarnContext(
			ctx, "failed to remove unused signature",
			slog.String("error", err.Error()),
			slog.String("ref", ref),
			slog.String("module", "mandate"),
		)
	}
}

// partyUsers lists the individual users on a mandate; the platform is not a user.
func partyUsers(m domain.Mandate) []string {
	users := []string{m.SellerID}
	if m.BrokerID != nil && *m.BrokerID != "" && *m.BrokerID != m.SellerID {
		users = append(users, *m.BrokerID)
	}
	return users
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
