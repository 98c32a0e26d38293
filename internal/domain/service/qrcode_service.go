package service

// QRCodeService generates and parses the QR codes vendors display so that
// consumers can subscribe by scanning.
type QRCodeService interface {
	// GenerateVendorQR returns a PNG encoding the vendor's subscribe payload.
	GenerateVendorQR(vendorID string) ([]byte, error)

	// ParseVendorQR decodes a scanned payload and returns the vendor id.
	ParseVendorQR(qrData string) (string, error)
}
