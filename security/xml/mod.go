// Package xml registers the XML format for access control lists. The XML
// form is the <security> block stored with secured objects in the content
// repository:
//
//	<security>
//	  <owner><user id="jane" realm="weblounge"/></owner>
//	  <acl order="allow,deny">
//	    <permission id="weblounge:publish">
//	      <allow type="role">weblounge:publisher</allow>
//	      <deny type="user">blocked</deny>
//	    </permission>
//	  </acl>
//	</security>
//
// Serializing and parsing back is not byte-identical, but the parsed rule
// set yields the same allow and deny decisions.
package xml

import (
	encxml "encoding/xml"
	"io"
	"io/ioutil"

	"go.entwine.ch/weblounge/security"
	"go.entwine.ch/weblounge/serde"
	xmlserde "go.entwine.ch/weblounge/serde/xml"
	"golang.org/x/xerrors"
)

func init() {
	security.RegisterACLFormat(serde.FormatXML, aclFormat{})
}

// SecurityXML is the XML message for the security block of a secured object.
type SecurityXML struct {
	XMLName encxml.Name `xml:"security"`
	Owner   *OwnerXML   `xml:"owner"`
	ACL     *ACLXML     `xml:"acl"`
}

// OwnerXML is the XML message for the owner element.
type OwnerXML struct {
	User UserXML `xml:"user"`
}

// UserXML is the XML message for a user reference.
type UserXML struct {
	ID    string `xml:"id,attr"`
	Realm string `xml:"realm,attr,omitempty"`
}

// ACLXML is the XML message for the rule set.
type ACLXML struct {
	Order       string          `xml:"order,attr"`
	Permissions []PermissionXML `xml:"permission"`
}

// PermissionXML is the XML message for the rules of one action.
type PermissionXML struct {
	ID     string       `xml:"id,attr"`
	Allows []GranteeXML `xml:"allow"`
	Denies []GranteeXML `xml:"deny"`
}

// GranteeXML is the XML message for a single allow or deny element.
type GranteeXML struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// aclFormat is the engine to encode and decode ACL messages in the XML rule
// configuration format.
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

	m := SecurityXML{}

	if owner := acl.Owner(); owner != nil {
		m.Owner = &OwnerXML{
			User: UserXML{
				ID:    owner.Login(),
				Realm: owner.Realm(),
			},
		}
	}

	if !acl.IsDefaultAccess() {
		aclXML := &ACLXML{
			Order: acl.Order().String(),
		}

		// The rules are already grouped by action, so one permission element
		// per run of equal actions is enough.
		var current *PermissionXML
		for _, rule := range acl.Rules() {
			if current == nil || current.ID != rule.Action.String() {
				aclXML.Permissions = append(aclXML.Permissions, PermissionXML{
					ID: rule.Action.String(),
				})
				current = &aclXML.Permissions[len(aclXML.Permissions)-1]
			}

			grantee := GranteeXML{
				Type:  rule.Authority.Type,
				Value: rule.Authority.ID,
			}

			switch rule.Rule {
			case security.Allow:
				current.Allows = append(current.Allows, grantee)
			case security.Deny:
				current.Denies = append(current.Denies, grantee)
			}
		}

		m.ACL = aclXML
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
	m := SecurityXML{}
	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	var opts []security.ACLOption

	if m.Owner != nil {
		realm := m.Owner.User.Realm
		if realm == "" {
			realm = security.DefaultRealm
		}

		opts = append(opts, security.WithOwner(security.NewUser(m.Owner.User.ID, realm)))
	}

	if m.ACL != nil {
		order, err := security.ParseOrder(m.ACL.Order)
		if err != nil {
			return nil, xerrors.Errorf("failed to decode order: %v", err)
		}

		opts = append(opts, security.WithOrder(order))

		var rules []security.AccessRule
		for _, permission := range m.ACL.Permissions {
			action, err := security.ParseAction(permission.ID)
			if err != nil {
				return nil, xerrors.Errorf("failed to decode permission: %v", err)
			}

			for _, grantee := range permission.Allows {
				rules = append(rules, security.NewAccessRule(
					security.AuthorityOf(grantee.Type, grantee.Value), action, security.Allow))
			}

			for _, grantee := range permission.Denies {
				rules = append(rules, security.NewAccessRule(
					security.AuthorityOf(grantee.Type, grantee.Value), action, security.Deny))
			}
		}

		if len(rules) > 0 {
			opts = append(opts, security.WithRules(rules...))
		}
	}

	return security.NewACL(opts...), nil
}

// Read parses a security block from the reader and returns the ACL.
func Read(r io.Reader) (*security.ACL, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, xerrors.Errorf("failed to read: %v", err)
	}

	acl, err := security.ACLFactory{}.ACLOf(xmlserde.NewContext(), data)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse security block: %v", err)
	}

	return acl, nil
}

// Write serializes the ACL as a security block to the writer.
func Write(w io.Writer, acl *security.ACL) error {
	data, err := acl.Serialize(xmlserde.NewContext())
	if err != nil {
		return xerrors.Errorf("failed to serialize security block: %v", err)
	}

	_, err = w.Write(data)
	if err != nil {
		return xerrors.Errorf("failed to write: %v", err)
	}

	return nil
}
