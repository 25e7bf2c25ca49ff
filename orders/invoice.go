package orders

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"voltshop/apperr"
	"voltshop/db"
	"voltshop/models"
	"voltshop/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// DownloadInvoice handles GET /api/orders/:orderid/invoice — a PDF
// with the order lines, totals, and a QR code linking to the order's
// tracking page.
func (s *Service) DownloadInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	orderID := ps.ByName("orderid")

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order); err != nil {
		utils.RespondWithError(w, apperr.NotFound("Order not found"))
		return
	}
	var shipping models.Shipping
	_ = db.ShippingCollection.FindOne(ctx, bson.M{"_id": order.ShippingID}).Decode(&shipping)
	var charge models.ShippingCharge
	_ = db.ShippingChargeCollection.FindOne(ctx, bson.M{"_id": order.ShippingChargeID}).Decode(&charge)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(100, 10, "Invoice")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(100, 6, fmt.Sprintf("Order %s", order.OrderID))
	pdf.Ln(6)
	pdf.Cell(100, 6, order.CreatedAt.Format("02 Jan 2006 15:04"))
	pdf.Ln(6)
	if shipping.FullName != "" {
		pdf.Cell(100, 6, fmt.Sprintf("%s, %s", shipping.FullName, shipping.FullAddress))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Unit", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range order.ProductDetails {
		pdf.CellFormat(90, 7, line.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", line.Total), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	for _, row := range []struct {
		label string
		value float64
	}{
		{"Subtotal", order.Subtotal},
		{"Shipping", charge.Amount},
		{"Discount", -order.Discount},
		{"Advance", -order.Advance},
		{"Total", order.Total},
	} {
		pdf.CellFormat(150, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", row.value), "", 1, "R", false, 0, "")
	}

	// QR code pointing at the order's tracking page.
	trackURL := s.cfg.PublicBaseURL + "/api/orders/" + order.OrderID
	if png, err := qrcode.Encode(trackURL, qrcode.Medium, 256); err == nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("track-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("track-qr", 12, pdf.GetY()+6, 30, 30, false, opts, 0, "")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", order.OrderID))
	if err := pdf.Output(w); err != nil {
		utils.RespondWithError(w, err)
	}
}
