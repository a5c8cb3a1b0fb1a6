// Package json registers the JSON format for access control lists. The JSON
// form is the one stored alongside documents in the search index.
package json

import (
	"go.entwine.ch/weblounge/security"
	"go.entwine.ch/weblounge/serde"
	"golang.org/x/xerrors"
)

func init() {
	security.RegisterACLFormat(serde.FormatJSON, aclFormat{})
}

// UserJSON is the JSON message for the owner of a secured object.
type UserJSON struct {
	Login string `json:"login"`
	Realm string `json:"realm"`
}

// AccessRuleJSON is the JSON message for a single access rule.
type AccessRuleJSON struct {
	Type      string `json:"type"`
	Authority string `json:"authority"`
	Action    string `json:"action"`
	Rule      string `json:"rule"`
}

// ACLJSON is the JSON message for an access control list.
type ACLJSON struct {
	Owner *UserJSON        `json:"owner,omitempty"`
	Order string           `json:"order"`
	Rules []AccessRuleJSON `json:"rules,omitempty"`
}

// aclFormat is the engine to encode and decode ACL messages in JSON format.
//
// - implements serde.FormatEngine
type aclFormat struct{}

// Encode implements serde.FormatEngine. It encodes the ACL message if
// appropriate, otherwise it returns an error.
func (aclFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	acl, ok := msg.(*security.ACL)
	if !ok {
		return nil, xerrors.Errorf("invalid acl '%T'", msg)
	}

	m := ACLJSON{
		Order: acl.Order().String(),
	}

	if owner := acl.Owner(); owner != nil {
		m.Owner = &UserJSON{
			Login: owner.Login(),
			Realm: owner.Realm(),
		}
	}

	for _, rule := range acl.Rules() {
		m.Rules = append(m.Rules, AccessRuleJSON{
			Type:      rule.Authority.Type,
			Authority: rule.Authority.ID,
			Action:    rule.Action.String(),
			Rule:      rule.Rule.String(),
		})
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It populates the ACL from the data
// if appropriate, otherwise it returns an error.
func (aclFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := ACLJSON{}
	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	order, err := security.ParseOrder(m.Order)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode order: %v", err)
	}

	opts := []security.ACLOption{security.WithOrder(order)}

	if m.Owner != nil {
		opts = append(opts, security.WithOwner(security.NewUser(m.Owner.Login, m.Owner.Realm)))
	}

	rules := make([]security.AccessRule, len(m.Rules))
	for i, raw := range m.Rules {
		action, err := security.ParseAction(raw.Action)
		if err != nil {
			return nil, xerrors.Errorf("failed to decode rule: %v", err)
		}

		rule, err := security.ParseRule(raw.Rule)
		if err != nil {
			return nil, xerrors.Errorf("failed to decode rule: %v", err)
		}

		rules[i] = security.NewAccessRule(security.AuthorityOf(raw.Type, raw.Authority), action, rule)
	}

	if len(rules) > 0 {
		opts = append(opts, security.WithRules(rules...))
	}

	return security.NewACL(opts...), nil
}
