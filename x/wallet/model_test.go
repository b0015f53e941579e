package wallet

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/weavetest"
	"github.com/iov-one/vault/weavetest/assert"
)

func TestTransferValidate(t *testing.T) {
	a := weavetest.RandomAddr(t)
	b := weavetest.RandomAddr(t)

	cases := map[string]struct {
		transfer *Transfer
		wantErrs map[string]*errors.Error
	}{
		"valid pending": {
			transfer: &Transfer{
				Metadata:    &vault.Metadata{Schema: 1},
				Amount:      coin.NewAmount(1),
				Destination: a,
			},
			wantErrs: map[string]*errors.Error{
				"Metadata":    nil,
				"Amount":      nil,
				"Destination": nil,
				"Approvals":   nil,
				"ApprovedBy":  nil,
			},
		},
		"valid sent": {
			transfer: &Transfer{
				Metadata:    &vault.Metadata{Schema: 1},
				ID:          4,
				Amount:      coin.NewAmount(1),
				Destination: a,
				Approvals:   2,
				Sent:        true,
				ApprovedBy:  []vault.Address{a, b},
			},
			wantErrs: map[string]*errors.Error{
				"Approvals":  nil,
				"ApprovedBy": nil,
			},
		},
		"missing metadata": {
			transfer: &Transfer{
				Amount:      coin.NewAmount(1),
				Destination: a,
			},
			wantErrs: map[string]*errors.Error{
				"Metadata": errors.ErrMetadata,
			},
		},
		"approvals do not match approvers": {
			transfer: &Transfer{
				Metadata:    &vault.Metadata{Schema: 1},
				Amount:      coin.NewAmount(1),
				Destination: a,
				Approvals:   2,
				ApprovedBy:  []vault.Address{a},
			},
			wantErrs: map[string]*errors.Error{
				"Approvals":  errors.ErrState,
				"ApprovedBy": nil,
			},
		},
		"repeated approver": {
			transfer: &Transfer{
				Metadata:    &vault.Metadata{Schema: 1},
				Amount:      coin.NewAmount(1),
				Destination: a,
				Approvals:   2,
				ApprovedBy:  []vault.Address{b, b},
			},
			wantErrs: map[string]*errors.Error{
				"Approvals":  nil,
				"ApprovedBy": ErrDuplicateApproval,
			},
		},
		"zero amount is valid": {
			transfer: &Transfer{
				Metadata: &vault.Metadata{Schema: 1},
			},
			wantErrs: map[string]*errors.Error{
				"Amount":      nil,
				"Destination": errors.ErrInput,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.transfer.Validate()
			for field, want := range tc.wantErrs {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestTransferCopy(t *testing.T) {
	a := weavetest.RandomAddr(t)
	orig := &Transfer{
		Metadata:    &vault.Metadata{Schema: 1},
		ID:          3,
		Amount:      coin.NewAmount(12),
		Destination: weavetest.RandomAddr(t),
		Approvals:   1,
		ApprovedBy:  []vault.Address{a},
	}
	cpy := orig.Copy().(*Transfer)
	assert.Equal(t, orig, cpy)

	cpy.ApprovedBy[0][0]++
	cpy.Destination[0]++
	cpy.Metadata.Schema = 2
	assert.Equal(t, a, orig.ApprovedBy[0])
	assert.Equal(t, uint32(1), orig.Metadata.Schema)
	assert.Equal(t, true, orig.HasApproved(a))
	assert.Equal(t, false, cpy.HasApproved(a))
}

func TestTransferSerialization(t *testing.T) {
	orig := &Transfer{
		Metadata:    &vault.Metadata{Schema: 1},
		ID:          1 << 40,
		Amount:      coin.MustParseAmount("123456789012345678901234567890"),
		Destination: weavetest.RandomAddr(t),
		Approvals:   2,
		Sent:        true,
		ApprovedBy:  []vault.Address{weavetest.RandomAddr(t), weavetest.RandomAddr(t)},
	}
	raw, err := orig.Marshal()
	assert.Nil(t, err)
	var got Transfer
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, orig, &got)
}

func TestConfigurationValidate(t *testing.T) {
	a := weavetest.RandomAddr(t)
	b := weavetest.RandomAddr(t)

	cases := map[string]struct {
		conf     Configuration
		wantErrs map[string]*errors.Error
	}{
		"valid": {
			conf: Configuration{Metadata: &vault.Metadata{Schema: 1}, Approvers: []vault.Address{a, b}, Quorum: 2},
			wantErrs: map[string]*errors.Error{
				"Metadata":  nil,
				"Approvers": nil,
				"Quorum":    nil,
			},
		},
		"no approvers": {
			conf: Configuration{Metadata: &vault.Metadata{Schema: 1}, Quorum: 1},
			wantErrs: map[string]*errors.Error{
				"Approvers": errors.ErrEmpty,
				"Quorum":    errors.ErrInput,
			},
		},
		"duplicate": {
			conf: Configuration{Metadata: &vault.Metadata{Schema: 1}, Approvers: []vault.Address{a, b, b}, Quorum: 1},
			wantErrs: map[string]*errors.Error{
				"Approvers": errors.ErrDuplicate,
				"Quorum":    nil,
			},
		},
		"zero quorum": {
			conf: Configuration{Metadata: &vault.Metadata{Schema: 1}, Approvers: []vault.Address{a}},
			wantErrs: map[string]*errors.Error{
				"Approvers": nil,
				"Quorum":    errors.ErrInput,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.conf.Validate()
			for field, want := range tc.wantErrs {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestConfigurationSerialization(t *testing.T) {
	orig := &Configuration{
		Metadata:  &vault.Metadata{Schema: 1},
		Approvers: []vault.Address{weavetest.RandomAddr(t), weavetest.RandomAddr(t), weavetest.RandomAddr(t)},
		Quorum:    2,
	}
	raw, err := orig.Marshal()
	assert.Nil(t, err)
	var got Configuration
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, orig, &got)
}
