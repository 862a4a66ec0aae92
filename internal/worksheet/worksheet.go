package worksheet

import (
	"github.com/myrjola/reaksi/internal/layout"
	"github.com/myrjola/reaksi/internal/models"
)

// Question is one analysis question of the worksheet.
type Question struct {
	// Key is one of [models.AnswerKeys].
	Key         string `koanf:"key"         validate:"required"`
	Title       string `koanf:"title"       validate:"required"`
	Prompt      string `koanf:"prompt"      validate:"required"`
	Placeholder string `koanf:"placeholder"`
}

// Content is the text and geometry shown on the worksheet page.
type Content struct {
	Title    string `koanf:"title"    validate:"required"`
	Subtitle string `koanf:"subtitle"`
	// BoxLabels label the boxes at t = 0 s, 10 s and 20 s.
	BoxLabels []string    `koanf:"box_labels" validate:"len=3,dive,required"`
	Area      layout.Area `koanf:"area"`
	Questions []Question  `koanf:"questions" validate:"len=5,dive"`
}

// Question returns the question with the answer key.
func (c *Content) Question(key string) (Question, bool) {
	for _, q := range c.Questions {
		if q.Key == key {
			return q, true
		}
	}
	return Question{}, false
}

// Default returns the built-in worksheet.
func Default() *Content {
	return &Content{
		Title:     "Simulasi Laju Reaksi Partikel",
		Subtitle:  "Amati perubahan jumlah partikel biomassa (merah) menjadi polutan (biru) pada proses pembakaran",
		BoxLabels: []string{"Kotak A", "Kotak B", "Kotak C"},
		Area:      layout.DefaultArea,
		Questions: []Question{
			{
				Key:   models.AnswerReduction,
				Title: "Analisis Pengurangan (Laju Reaktan)",
				Prompt: "Berapa banyak partikel merah yang hilang dari detik ke-0 ke detik ke-10? " +
					"Hitunglah laju pengurangannya dengan rumus: Δ[Reaktan]/Δt",
				Placeholder: "Tuliskan jawaban dan perhitunganmu di sini...",
			},
			{
				Key:   models.AnswerFormation,
				Title: "Analisis Penambahan (Laju Produk)",
				Prompt: "Berapa banyak partikel biru yang muncul dari detik ke-10 ke detik ke-20? " +
					"Hitunglah laju pembentukannya dengan rumus: Δ[Produk]/Δt",
				Placeholder: "Tuliskan jawaban dan perhitunganmu di sini...",
			},
			{
				Key:   models.AnswerNegative,
				Title: "Simbol Positif dan Negatif",
				Prompt: "Jika partikel merah adalah Reaktan dan partikel biru adalah Produk, mengapa laju reaktan " +
					"selalu diberi tanda negatif (-) sedangkan produk bertanda positif (+)?",
				Placeholder: "Tuliskan jawaban dan penjelasanmu di sini...",
			},
			{
				Key:   models.AnswerAir,
				Title: "Kaitan dengan Kebakaran Hutan (Karhutla)",
				Prompt: "Jika bulatan merah adalah kayu hutan dan bulatan biru adalah gas polutan CO, apa yang " +
					"terjadi pada kualitas udara jika laju perubahan partikel ini berlangsung sangat cepat?",
				Placeholder: "Tuliskan jawaban dan penjelasanmu di sini...",
			},
			{
				Key:         models.AnswerDefinition,
				Title:       "Generalisasi Simbolik - Definisi Laju Reaksi",
				Prompt:      "Berdasarkan pengamatanmu, rumuskan definisi Laju Reaksi (v) dengan kata-katamu sendiri!",
				Placeholder: "Laju Reaksi adalah...",
			},
		},
	}
}
