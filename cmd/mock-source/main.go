// mock-source imitates the three providers that need accounts (Trefle,
// PlantNet, OpenPlantBook) with deterministic derived data, so demo runs
// work offline and tests stay reproducible.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// genus -> common name, from the reference tables the demo data uses
var commonNames = map[string]string{
	"rosa":       "Rose",
	"tulipa":     "Tulipe",
	"lilium":     "Lys",
	"iris":       "Iris",
	"quercus":    "Chêne",
	"acer":       "Érable",
	"pinus":      "Pin",
	"solanum":    "Tomate",
	"daucus":     "Carotte",
	"mentha":     "Menthe",
	"rosmarinus": "Romarin",
	"thymus":     "Thym",
}

// genus -> botanical family
var families = map[string]string{
	"rosa":       "Rosaceae",
	"tulipa":     "Liliaceae",
	"lilium":     "Liliaceae",
	"iris":       "Iridaceae",
	"quercus":    "Fagaceae",
	"acer":       "Sapindaceae",
	"pinus":      "Pinaceae",
	"solanum":    "Solanaceae",
	"daucus":     "Apiaceae",
	"mentha":     "Lamiaceae",
	"rosmarinus": "Lamiaceae",
	"thymus":     "Lamiaceae",
}

func genusOf(scientificName string) string {
	parts := strings.Fields(scientificName)
	if len(parts) == 0 {
		return scientificName
	}
	return strings.ToLower(parts[0])
}

func commonNameFor(scientificName string) string {
	genus := genusOf(scientificName)
	if name, ok := commonNames[genus]; ok {
		return name
	}
	return fmt.Sprintf("%s (nom commun inconnu)", capitalize(genus))
}

func familyFor(scientificName string) string {
	if f, ok := families[genusOf(scientificName)]; ok {
		return f
	}
	return "Famille inconnue"
}

func main() {
	http.HandleFunc("/trefle/species/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/trefle/species/")
		if name == "" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]any{
			"scientific_name": name,
			"common_name":     commonNameFor(name),
			"family":          familyFor(name),
			"genus":           capitalize(genusOf(name)),
			"year":            2024,
			"bibliography":    "USDA Plants Database",
			"author":          "USDA",
			"status":          "accepted",
			"rank":            "species",
		})
	})

	http.HandleFunc("/plantnet/species/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/plantnet/species/")
		if name == "" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]any{
			"species":      name,
			"family":       familyFor(name),
			"common_names": []string{commonNameFor(name)},
			"images":       []string{},
			"description":  fmt.Sprintf("Plante %s - Données PlantNet", name),
			"distribution": "Europe, Amérique du Nord",
			"habitat":      "Jardins, parcs, milieux naturels",
		})
	})

	http.HandleFunc("/openplantbook/plant/", func(w http.ResponseWriter, r *http.Request) {
		pid := strings.TrimPrefix(r.URL.Path, "/openplantbook/plant/")
		if pid == "" {
			http.NotFound(w, r)
			return
		}
		display := strings.ReplaceAll(pid, "_", " ")
		writeJSON(w, map[string]any{
			"pid":                pid,
			"display_pid":        display,
			"alias":              commonNameFor(display),
			"temperature_min":    10,
			"temperature_max":    30,
			"humidity_min":       40,
			"humidity_max":       70,
			"light_min":          300,
			"light_max":          1000,
			"ph_min":             6.0,
			"ph_max":             7.5,
			"difficulty":         "medium",
			"watering_frequency": "weekly",
		})
	})

	log.Println("mock-source listening on http://localhost:9000")
	log.Fatal(http.ListenAndServe(":9000", nil))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
