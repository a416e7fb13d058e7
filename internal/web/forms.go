package web

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sponsorbridge/sponsorbridge/internal/models"
	"github.com/sponsorbridge/sponsorbridge/internal/validate"
)

// Form handling mirrors the backend's patch semantics: a field missing from
// the form is absent, an empty optional field is an explicit null on update,
// and numeric fields keep their raw text until validated so a typo becomes a
// field error rather than a dropped value.

// adSlotForm converts a submitted form into the validation input and the
// JSON payload sent to the API. The two are built together so the mirror
// validation always judges exactly what would be submitted.
func adSlotForm(values url.Values, mode validate.Mode) (*models.AdSlotInput, map[string]any) {
	in := &models.AdSlotInput{}
	payload := map[string]any{}

	if values.Has("name") {
		name := strings.TrimSpace(values.Get("name"))
		in.Name = models.Field[string]{Set: true, Value: name}
		payload["name"] = name
	}
	formText(values, "description", &in.Description, payload, mode)
	if values.Has("type") {
		t := values.Get("type")
		if t == "" && mode == validate.Update {
			// A blank select on update means "leave unchanged".
		} else {
			in.Type = models.Field[string]{Set: true, Value: t}
			payload["type"] = t
		}
	}
	formText(values, "position", &in.Position, payload, mode)
	formNumber(values, "width", &in.Width, payload)
	formNumber(values, "height", &in.Height, payload)
	formNumber(values, "basePrice", &in.BasePrice, payload)
	if values.Has("cpmFloor") {
		if raw := values.Get("cpmFloor"); raw == "" {
			if mode == validate.Update {
				in.CPMFloor = models.Number{Set: true, Null: true}
				payload["cpmFloor"] = nil
			}
		} else {
			setNumber(&in.CPMFloor, raw)
			payload["cpmFloor"] = numberPayload(in.CPMFloor, raw)
		}
	}
	if values.Has("isAvailable") {
		avail := values.Get("isAvailable") == "true"
		in.IsAvailable = models.Field[bool]{Set: true, Value: avail}
		payload["isAvailable"] = avail
	}

	return in, payload
}

// campaignForm is the campaign counterpart of adSlotForm.
func campaignForm(values url.Values, mode validate.Mode) (*models.CampaignInput, map[string]any) {
	in := &models.CampaignInput{}
	payload := map[string]any{}

	if values.Has("name") {
		name := strings.TrimSpace(values.Get("name"))
		in.Name = models.Field[string]{Set: true, Value: name}
		payload["name"] = name
	}
	if values.Has("description") {
		desc := values.Get("description")
		if desc == "" && mode == validate.Update {
			in.Description = models.Field[string]{Set: true, Null: true}
			payload["description"] = nil
		} else if desc != "" {
			in.Description = models.Field[string]{Set: true, Value: desc}
			payload["description"] = desc
		}
	}
	formNumber(values, "budget", &in.Budget, payload)
	formNumber(values, "spent", &in.Spent, payload)
	formNumber(values, "cpmRate", &in.CPMRate, payload)
	formNumber(values, "cpcRate", &in.CPCRate, payload)
	formDate(values, "startDate", &in.StartDate, payload)
	formDate(values, "endDate", &in.EndDate, payload)
	formList(values, "targetCategories", &in.TargetCategories, payload)
	formList(values, "targetRegions", &in.TargetRegions, payload)
	if values.Has("status") {
		if st := values.Get("status"); st != "" {
			in.Status = models.Field[string]{Set: true, Value: st}
			payload["status"] = st
		}
	}

	return in, payload
}

func formText(values url.Values, key string, f *models.Field[string], payload map[string]any, mode validate.Mode) {
	if !values.Has(key) {
		return
	}
	v := values.Get(key)
	if v == "" {
		if mode == validate.Update {
			*f = models.Field[string]{Set: true, Null: true}
			payload[key] = nil
		}
		return
	}
	*f = models.Field[string]{Set: true, Value: v}
	payload[key] = v
}

func formNumber(values url.Values, key string, n *models.Number, payload map[string]any) {
	if !values.Has(key) {
		return
	}
	raw := values.Get(key)
	if raw == "" {
		return
	}
	setNumber(n, raw)
	payload[key] = numberPayload(*n, raw)
}

func setNumber(n *models.Number, raw string) {
	n.Set = true
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return
	}
	n.Valid = true
	n.Value = v
}

// numberPayload keeps the raw text for unparseable input so the backend
// reports the same field error the mirror did.
func numberPayload(n models.Number, raw string) any {
	if n.Valid {
		return n.Value
	}
	return raw
}

func formDate(values url.Values, key string, d *models.DateTime, payload map[string]any) {
	if !values.Has(key) {
		return
	}
	raw := values.Get(key)
	if raw == "" {
		return
	}
	d.Set = true
	payload[key] = raw
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Valid = true
			d.Value = t
			return
		}
	}
}

func formList(values url.Values, key string, f *models.Field[[]string], payload map[string]any) {
	if !values.Has(key) {
		return
	}
	var items []string
	for _, part := range strings.Split(values.Get(key), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if items == nil {
		items = []string{}
	}
	*f = models.Field[[]string]{Set: true, Value: items}
	payload[key] = items
}
