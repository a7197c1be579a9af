package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/airhealthproject/airctl/pkg/predict"
)

// predictParams maps query parameter names to the survey columns they carry,
// in feature order. The parameter names are part of the public API.
var predictParams = []struct {
	param  string
	column string
}{
	{"age_group", "Age Group"},
	{"housing_type", "Housing Type"},
	{"dust_entry", "Dust Entry Frequency"},
	{"season", "Worst Pollution Season"},
	{"chest_heaviness", "Morning Chest Heaviness"},
	{"wheezing", "Wheezing Sound"},
	{"eye_irritation", "Eye/Throat Irritation"},
	{"open_drains", "Open Drains Nearby"},
	{"foul_smell", "Foul Smell Daily"},
	{"construction", "Construction Pollution"},
}

func predictAPIHandler(svc *predict.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		answers := make(map[string]string, len(predictParams))
		var missing []string
		for _, p := range predictParams {
			v := q.Get(p.param)
			if v == "" {
				missing = append(missing, p.param)
				continue
			}
			answers[p.column] = v
		}
		if len(missing) > 0 {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("missing required parameters: %s", strings.Join(missing, ", ")))
			return
		}

		res, err := svc.Predict(answers)
		if err != nil {
			var miss *predict.MissingInputError
			if errors.As(err, &miss) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.Error("prediction failed", "error", err)
			writeError(w, http.StatusInternalServerError, "error running prediction")
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}
