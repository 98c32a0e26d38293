// Package qrcode renders the subscribe codes vendors show at their stall and
// decodes the payload a consumer's scanner hands back.
package qrcode

import (
	"encoding/json"
	"strings"

	"milkrun/config"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/service"
	"milkrun/internal/errors"

	"github.com/skip2/go-qrcode"
)

const subscribeType = "subscribe"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// Payload is the JSON encoded inside a vendor QR code.
type Payload struct {
	VendorID string `json:"vendor_id"`
	Type     string `json:"type"`
}

// NewQRCodeService creates the QR code service from config.
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size, level := 256, "M"
	if cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		level = cfg.QRCode.ErrorCorrectionLevel
	}

	return newQRCodeService(size, level)
}

func newQRCodeService(size int, errorCorrectionLevel string) *qrcodeService {
	var level qrcode.RecoveryLevel
	switch strings.ToUpper(errorCorrectionLevel) {
	case "L":
		level = qrcode.Low
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// EncodePayload returns the text placed inside a vendor's QR code.
func EncodePayload(vendorID string) (string, error) {
	data, err := json.Marshal(Payload{VendorID: vendorID, Type: subscribeType})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal QR code data")
	}

	return string(data), nil
}

// GenerateVendorQR returns a PNG of the vendor's subscribe payload.
func (s *qrcodeService) GenerateVendorQR(vendorID string) ([]byte, error) {
	if strings.TrimSpace(vendorID) == "" {
		return nil, domainerrors.ErrInvalidQRCode.WithDetails("vendor id is empty")
	}

	content, err := EncodePayload(vendorID)
	if err != nil {
		return nil, err
	}

	qrCode, err := qrcode.New(content, s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseVendorQR decodes a scanned payload and returns the vendor id.
func (s *qrcodeService) ParseVendorQR(qrData string) (string, error) {
	var data Payload
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return "", errors.Wrap(domainerrors.ErrInvalidQRCode.WithDetails(err.Error()), "failed to unmarshal QR code data")
	}

	if data.Type != subscribeType {
		return "", domainerrors.ErrInvalidQRCode.WithDetails("invalid QR code type: " + data.Type)
	}

	vendorID := strings.TrimSpace(data.VendorID)
	if vendorID == "" {
		return "", domainerrors.ErrInvalidQRCode.WithDetails("missing vendor id")
	}

	return vendorID, nil
}
