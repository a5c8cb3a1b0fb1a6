package security

import (
	"sort"

	"go.entwine.ch/weblounge/serde"
	"golang.org/x/xerrors"
)

var aclFormats = serde.NewFormatRegistry()

// RegisterACLFormat registers the ACL format engine for the provided format.
func RegisterACLFormat(f serde.Format, e serde.FormatEngine) {
	aclFormats.Register(f, e)
}

// ACL is the access control list attached to a secured object: an owner, an
// evaluation order and rules grouped by action. A fresh ACL carries no rule
// and grants access according to the default policy only.
//
// Mutations of an ACL must be synchronized externally, one edit session per
// secured object at a time. Reads from concurrent permission checks are safe
// as long as no mutation is in flight.
//
// - implements security.Securable
// - implements serde.Message
type ACL struct {
	owner         *User
	order         Order
	entries       []AccessRule
	defaultAccess bool
	policy        DefaultPolicy
	watcher       *watcher
}

// ACLOption is the option type to create an ACL.
type ACLOption func(*ACL)

// WithOwner is an option to set the owner of the secured object.
func WithOwner(owner *User) ACLOption {
	return func(acl *ACL) {
		acl.owner = owner
	}
}

// WithOrder is an option to set the evaluation order.
func WithOrder(order Order) ACLOption {
	return func(acl *ACL) {
		acl.order = order
	}
}

// WithDefaultPolicy is an option to set the policy consulted when no rule
// exists for an action.
func WithDefaultPolicy(policy DefaultPolicy) ACLOption {
	return func(acl *ACL) {
		acl.policy = policy
	}
}

// WithRules is an option to add a set of access rules.
func WithRules(rules ...AccessRule) ACLOption {
	return func(acl *ACL) {
		for _, rule := range rules {
			acl.insert(rule)
		}
	}
}

// NewACL returns a new access control list. Unless the options say otherwise
// it evaluates in allow-deny order and uses the open default policy.
func NewACL(opts ...ACLOption) *ACL {
	acl := &ACL{
		order:         AllowDeny,
		defaultAccess: true,
		policy:        OpenPolicy,
		watcher:       newWatcher(),
	}

	for _, opt := range opts {
		opt(acl)
	}

	return acl
}

// Owner implements security.Securable. It returns the owner of the secured
// object, or nil.
func (acl *ACL) Owner() *User {
	return acl.owner
}

// SetOwner sets the owner of the secured object and notifies the observers.
func (acl *ACL) SetOwner(owner *User) {
	acl.owner = owner

	acl.watcher.notify(Event{Kind: EventOwnerChanged, Owner: owner})
}

// Order implements security.Securable. It returns the evaluation order.
func (acl *ACL) Order() Order {
	return acl.order
}

// SetOrder sets the evaluation order and notifies the observers.
func (acl *ACL) SetOrder(order Order) {
	acl.order = order

	acl.watcher.notify(Event{Kind: EventOrderChanged, Order: order})
}

// Rules implements security.Securable. It returns the access rules grouped by
// action, allow rules first within each group.
func (acl *ACL) Rules() []AccessRule {
	return append([]AccessRule{}, acl.entries...)
}

// IsDefaultAccess implements security.Securable. It returns true as long as
// no explicit rule has ever been added.
func (acl *ACL) IsDefaultAccess() bool {
	return acl.defaultAccess
}

// Policy implements security.Securable. It returns the default policy of the
// secured object.
func (acl *ACL) Policy() DefaultPolicy {
	return acl.policy
}

// AddRule adds the rule to the list, replacing a previous rule for the same
// action and authority. Explicit rules take precedence over defaults, so the
// first rule added also clears the default access flag. The observers are
// notified synchronously before the call returns.
func (acl *ACL) AddRule(rule AccessRule) {
	acl.insert(rule)

	acl.watcher.notify(Event{Kind: EventRuleAdded, Rule: rule})
}

// Watch registers the observer so it receives mutation events.
func (acl *ACL) Watch(observer Observer) {
	acl.watcher.add(observer)
}

// Unwatch removes the observer.
func (acl *ACL) Unwatch(observer Observer) {
	acl.watcher.remove(observer)
}

// IsAllowed implements security.Securable. The owner of the secured object is
// always allowed. Otherwise the rules for the action decide: under allow-deny
// order a matching allow rule grants the action unless a deny rule for the
// same action matches as well. When no rule exists for the action, the
// default policy decides.
func (acl *ACL) IsAllowed(action Action, authority Authority) (bool, error) {
	if acl.order == 0 {
		return false, NewIllegalState("evaluation order is not set")
	}

	if acl.isOwner(authority) {
		return true, nil
	}

	if acl.order == DenyAllow {
		return false, xerrors.Errorf("evaluating '%s': %w", action, ErrNotImplemented)
	}

	allow, deny, found := acl.match(action, authority)
	if !found {
		return acl.policy(action, authority), nil
	}

	return allow && !deny, nil
}

// IsDenied implements security.Securable. It is not the mere complement of
// IsAllowed: an authority matching no rule at all is neither allowed nor
// denied. When no rule exists for the action, the complement of the default
// policy decides.
func (acl *ACL) IsDenied(action Action, authority Authority) (bool, error) {
	if acl.order == 0 {
		return false, NewIllegalState("evaluation order is not set")
	}

	if acl.isOwner(authority) {
		return false, nil
	}

	if acl.order == DenyAllow {
		return false, xerrors.Errorf("evaluating '%s': %w", action, ErrNotImplemented)
	}

	_, deny, found := acl.match(action, authority)
	if !found {
		return !acl.policy(action, authority), nil
	}

	return deny, nil
}

// Serialize implements serde.Message. It looks up the format and returns the
// serialized data of the ACL.
func (acl *ACL) Serialize(ctx serde.Context) ([]byte, error) {
	format := aclFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, acl)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode acl: %v", err)
	}

	return data, nil
}

func (acl *ACL) isOwner(authority Authority) bool {
	if acl.owner == nil {
		return false
	}

	return acl.owner.Authority() == authority
}

// match reports whether any rule exists for the action, and whether an allow
// or a deny rule matches the authority.
func (acl *ACL) match(action Action, authority Authority) (allow, deny, found bool) {
	for _, entry := range acl.entries {
		if entry.Action != action {
			continue
		}

		found = true

		if !entry.Authority.Matches(authority) {
			continue
		}

		switch entry.Rule {
		case Allow:
			allow = true
		case Deny:
			deny = true
		}
	}

	return allow, deny, found
}

func (acl *ACL) insert(rule AccessRule) {
	entries := acl.entries[:0]
	for _, entry := range acl.entries {
		if entry.Action == rule.Action && entry.Authority == rule.Authority {
			continue
		}

		entries = append(entries, entry)
	}

	acl.entries = append(entries, rule)

	// Keep the list grouped by action, allow rules ahead of deny rules.
	sort.SliceStable(acl.entries, func(i, j int) bool {
		a, b := acl.entries[i], acl.entries[j]
		if a.Action != b.Action {
			return a.Action.String() < b.Action.String()
		}

		return a.Rule < b.Rule
	})

	acl.defaultAccess = false
}

// ACLFactory deserializes access control lists.
//
// - implements serde.Factory
type ACLFactory struct{}

// Deserialize implements serde.Factory.
func (f ACLFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.ACLOf(ctx, data)
}

// ACLOf returns the ACL from the serialized data.
func (f ACLFactory) ACLOf(ctx serde.Context, data []byte) (*ACL, error) {
	format := aclFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("%v format: %v", ctx.GetFormat(), err)
	}

	acl, ok := msg.(*ACL)
	if !ok {
		return nil, xerrors.Errorf("invalid acl '%T'", msg)
	}

	return acl, nil
}
