package odoo

import (
	"strings"

	"github.com/biter777/countries"
	"github.com/deppfellow/odoo-bridge/internal/model"
	"github.com/pkg/errors"
)

const (
	countryModel = "res.country"
	partnerModel = "res.partner"
)

// FindCountryID resolves a res.country id.
//
// A non-blank ISO code is tried first with an exact match on code; when it
// matches, the name is never searched. Otherwise a non-blank name is
// searched case-insensitively with ilike and the first hit wins. nil means
// no country matched, which is not an error.
func (s *Session) FindCountryID(iso, name string) (*int64, error) {
	if code := normalizeISO(iso); code != "" {
		id, err := s.searchOne(countryModel, "code", "=", code)
		if err != nil {
			return nil, err
		}
		if id != nil {
			return id, nil
		}
	}

	if name = strings.TrimSpace(name); name != "" {
		return s.searchOne(countryModel, "name", "ilike", name)
	}

	return nil, nil
}

// CreatePartner creates a res.partner from p and returns the new id.
func (s *Session) CreatePartner(p model.Partner) (int64, error) {
	reply, err := s.ExecuteKW(partnerModel, "create", []interface{}{p.Values()}, nil)
	if err != nil {
		return 0, err
	}

	id, ok := asID(reply)
	if !ok {
		return 0, errors.Errorf("unexpected reply to %s create: %v", partnerModel, reply)
	}

	s.logger.Debug().Int64("partner_id", id).Msg("odoo partner created")

	return id, nil
}

func (s *Session) searchOne(modelName, field, operator, value string) (*int64, error) {
	domain := []interface{}{[]interface{}{field, operator, value}}

	reply, err := s.ExecuteKW(modelName, "search", []interface{}{domain}, map[string]interface{}{"limit": 1})
	if err != nil {
		return nil, err
	}

	ids, ok := reply.([]interface{})
	if !ok || len(ids) == 0 {
		return nil, nil
	}

	id, ok := asID(ids[0])
	if !ok {
		return nil, errors.Errorf("unexpected id in %s search reply: %v", modelName, ids[0])
	}

	return &id, nil
}

// normalizeISO upper-cases the code; alpha-3 codes Odoo would not know are
// mapped to alpha-2.
func normalizeISO(iso string) string {
	code := strings.ToUpper(strings.TrimSpace(iso))
	if len(code) != 3 {
		return code
	}

	if c := countries.ByName(code); c != countries.Unknown {
		return c.Alpha2()
	}
	return code
}
