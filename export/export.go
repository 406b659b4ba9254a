package export

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roteiro/comments"
	"roteiro/db"
	"roteiro/models"
	"roteiro/rdx"
	"roteiro/utils"
)

// Collect assembles the full export: every memory sorted by date, with
// its comments inlined, reaction counters from Redis and media URLs made
// absolute so the dump is portable.
func Collect(ctx context.Context) ([]models.ExportedMemory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := db.MemoriesCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var mems []models.Memory
	if err := cursor.All(ctx, &mems); err != nil {
		return nil, err
	}

	out := make([]models.ExportedMemory, 0, len(mems))
	for _, m := range mems {
		if counts, err := rdx.GetReactions(ctx, "memory", m.ID); err == nil && len(counts) > 0 {
			m.Reactions = counts
		}
		for i, u := range m.Media {
			m.Media[i] = utils.ToPublicURL(u)
		}
		cs, err := comments.ByMemory(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.ExportedMemory{Memory: m, Comments: cs})
	}
	return out, nil
}

// JSON serves the export as a downloadable JSON document.
func JSON(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	exported, err := Collect(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao exportar memórias")
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename=memorias.json")
	utils.RespondWithJSON(w, http.StatusOK, exported)
}

// PDF serves a printable album: one section per memory, a QR code
// linking back to the site on the first page.
func PDF(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	exported, err := Collect(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao exportar memórias")
		return
	}

	qrPNG, err := qrcode.Encode(utils.ToPublicURL("/"), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao gerar código QR")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, tr("Memórias do Roteiro"))
	pdf.Ln(16)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, "")

	for _, m := range exported {
		pdf.SetFont("Arial", "B", 13)
		title := m.Title
		if title == "" {
			title = "Sem título"
		}
		pdf.MultiCell(0, 8, tr(title), "", "L", false)

		pdf.SetFont("Arial", "", 10)
		meta := m.Date
		if m.Day != "" {
			meta += tr(fmt.Sprintf(" · Dia %s", m.Day))
		}
		if m.Location != "" {
			meta += tr(" · " + m.Location)
		}
		pdf.MultiCell(0, 6, meta, "", "L", false)

		if m.Text != "" {
			pdf.MultiCell(0, 6, tr(m.Text), "", "L", false)
		}
		for _, c := range m.Comments {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s: %s", c.User, c.Text)), "", "L", false)
		}
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao gerar PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=memorias.pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
