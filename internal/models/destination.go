package models

import (
	"errors"
	"fmt"
)

// Destination method type constants
const (
	MethodTypeCrypto        = "crypto"
	MethodTypeBank          = "bank"
	MethodTypeDigitalWallet = "digital_wallet"
)

// Destination is a named payout target. Exactly one of the detail structs is
// set, selected by MethodType.
type Destination struct {
	Name          string                `json:"name" validate:"required"`
	MethodType    string                `json:"methodType" validate:"required,oneof=crypto bank digital_wallet"`
	Crypto        *CryptoDetails        `json:"crypto,omitempty"`
	Bank          *BankDetails          `json:"bank,omitempty"`
	DigitalWallet *DigitalWalletDetails `json:"digitalWallet,omitempty"`
}

type CryptoDetails struct {
	Address string `json:"address"`
	Network string `json:"network"`
}

type BankDetails struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	RoutingNumber string `json:"routingNumber"`
}

type DigitalWalletDetails struct {
	Provider string `json:"provider"`
	Email    string `json:"email"`
}

// Validate checks that the variant matching MethodType is present and filled.
func (d *Destination) Validate() error {
	if d.Name == "" {
		return errors.New("destination name is required")
	}
	switch d.MethodType {
	case MethodTypeCrypto:
		if d.Crypto == nil || d.Crypto.Address == "" || d.Crypto.Network == "" {
			return errors.New("crypto destination requires address and network")
		}
	case MethodTypeBank:
		if d.Bank == nil || d.Bank.BankName == "" || d.Bank.AccountNumber == "" || d.Bank.RoutingNumber == "" {
			return errors.New("bank destination requires bank name, account number and routing number")
		}
	case MethodTypeDigitalWallet:
		if d.DigitalWallet == nil || d.DigitalWallet.Provider == "" || d.DigitalWallet.Email == "" {
			return errors.New("digital wallet destination requires provider and email")
		}
	default:
		return fmt.Errorf("unknown destination method type: %s", d.MethodType)
	}
	return nil
}

// RedactedIdentifier returns the destination identifier truncated to a safe
// prefix/suffix for use in audit descriptions.
func (d *Destination) RedactedIdentifier() string {
	switch d.MethodType {
	case MethodTypeCrypto:
		if d.Crypto == nil {
			return ""
		}
		return redact(d.Crypto.Address, 6, 4)
	case MethodTypeBank:
		if d.Bank == nil {
			return ""
		}
		return redact(d.Bank.AccountNumber, 0, 4)
	case MethodTypeDigitalWallet:
		if d.DigitalWallet == nil {
			return ""
		}
		return d.DigitalWallet.Email
	default:
		return ""
	}
}

// AuditMetadata returns the destination details flattened for the
// transaction metadata payload.
func (d *Destination) AuditMetadata() Metadata {
	m := Metadata{
		"destination_name": d.Name,
		"method_type":      d.MethodType,
	}
	switch d.MethodType {
	case MethodTypeCrypto:
		if d.Crypto != nil {
			m["address"] = redact(d.Crypto.Address, 6, 4)
			m["network"] = d.Crypto.Network
		}
	case MethodTypeBank:
		if d.Bank != nil {
			m["bank_name"] = d.Bank.BankName
			m["account_number"] = redact(d.Bank.AccountNumber, 0, 4)
		}
	case MethodTypeDigitalWallet:
		if d.DigitalWallet != nil {
			m["provider"] = d.DigitalWallet.Provider
			m["email"] = d.DigitalWallet.Email
		}
	}
	return m
}

func redact(s string, prefix, suffix int) string {
	if len(s) <= prefix+suffix {
		return s
	}
	if prefix == 0 {
		return "****" + s[len(s)-suffix:]
	}
	return s[:prefix] + "..." + s[len(s)-suffix:]
}
