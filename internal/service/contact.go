package service

import (
	"context"
	"strings"

	"github.com/deppfellow/odoo-bridge/internal/errs"
	"github.com/deppfellow/odoo-bridge/internal/model"
	"github.com/deppfellow/odoo-bridge/internal/server"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	msgOdooNotConfigured = "Bridge prêt mais variables Odoo manquantes."
	msgOdooCreateFailed  = "Erreur lors de la création Odoo : "
)

// ContactService turns contact-form submissions into Odoo partners.
type ContactService struct {
	server *server.Server
}

func NewContactService(s *server.Server) *ContactService {
	return &ContactService{server: s}
}

// Create authenticates, resolves the country, creates the partner and
// returns its id.
//
// It returns a 503 *errs.HTTPError, without calling Odoo, when the
// connection settings are incomplete. Any failure once Odoo is involved is
// a 502 carrying the underlying message.
func (s *ContactService) Create(ctx context.Context, sub model.Submission) (int64, error) {
	logger := zerolog.Ctx(ctx).With().Str("operation", "create_contact").Logger()

	if !s.server.Odoo.Configured() {
		logger.Warn().
			Strs("missing", s.server.Odoo.Config().MissingVars()).
			Msg("odoo configuration incomplete")
		return 0, errs.NewServiceUnavailableError(msgOdooNotConfigured)
	}

	txn := newrelic.FromContext(ctx)

	partnerID, partner, err := s.createPartner(txn, sub)
	if err != nil {
		logger.Error().Err(err).Msg("odoo partner creation failed")
		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
		}
		return 0, errs.NewBadGatewayError(msgOdooCreateFailed+err.Error(), err)
	}

	logger.Info().
		Int64("partner_id", partnerID).
		Bool("country_resolved", partner.CountryID != nil).
		Msg("odoo partner created")

	if txn != nil {
		txn.AddAttribute("odoo.partner_id", partnerID)
		txn.AddAttribute("odoo.country_resolved", partner.CountryID != nil)
	}

	s.notifyOwner(txn, &logger, partnerID, sub, partner)

	return partnerID, nil
}

func (s *ContactService) createPartner(txn *newrelic.Transaction, sub model.Submission) (int64, model.Partner, error) {
	seg := startSegment(txn, "odoo.authenticate")
	session, err := s.server.Odoo.Authenticate()
	seg.End()
	if err != nil {
		return 0, model.Partner{}, err
	}
	defer session.Close()

	seg = startSegment(txn, "odoo.find_country")
	countryID, err := session.FindCountryID(sub.CountryISO, sub.Country)
	seg.End()
	if err != nil {
		return 0, model.Partner{}, err
	}

	partner := model.BuildPartner(sub, countryID)

	seg = startSegment(txn, "odoo.create_partner")
	id, err := session.CreatePartner(partner)
	seg.End()
	if err != nil {
		return 0, model.Partner{}, err
	}

	return id, partner, nil
}

// notifyOwner never fails the request: the partner already exists in Odoo.
func (s *ContactService) notifyOwner(txn *newrelic.Transaction, logger *zerolog.Logger, partnerID int64, sub model.Submission, partner model.Partner) {
	if s.server.Notifier == nil {
		return
	}

	seg := startSegment(txn, "notify.owner")
	defer seg.End()

	if err := s.server.Notifier.SendNewContactEmail(partnerID, strings.TrimSpace(sub.Country), partner); err != nil {
		logger.Warn().Err(err).Int64("partner_id", partnerID).Msg("owner notification failed")
	}
}

func startSegment(txn *newrelic.Transaction, name string) *newrelic.Segment {
	if txn == nil {
		return nil
	}
	return txn.StartSegment(name)
}
