package cleaning

// countryReplacements corrects the inconsistent country labels that appear
// across VitiBrasil years (inverted forms, old state names, casing drift).
// Applied before the continent lookup.
var countryReplacements = map[string]string{
	"Alemanha, República Democrática": "Alemanha",
	"Cayman, Ilhas":                   "Ilhas Cayman",
	"Cocos (Keeling), Ilhas":          "Ilhas Cocos",
	"Eslovaca, Republica":             "Eslováquia",
	"Marshall, Ilhas":                 "Ilhas Marshall",
	"Tcheca, República":               "República Tcheca",
	"Taiwan (FORMOSA)":                "Taiwan",
	"Taiwan (Formosa)":                "Taiwan",
	"Coreia, Republica Sul":           "Coréia do Sul",
}

// countryContinents maps corrected country labels to continents.
//
// Transcontinental countries follow the dataset's own convention:
// Rússia counts as Europa, Turquia and Cazaquistão as Ásia.
var countryContinents = map[string]string{
	"África do Sul":    "África",
	"Angola":           "África",
	"Argélia":          "África",
	"Cabo Verde":       "África",
	"Egito":            "África",
	"Gana":             "África",
	"Marrocos":         "África",
	"Moçambique":       "África",
	"Nigéria":          "África",
	"Tunísia":          "África",

	"Barbados":              "América Central",
	"Costa Rica":            "América Central",
	"Cuba":                  "América Central",
	"Haiti":                 "América Central",
	"Ilhas Cayman":          "América Central",
	"Panamá":                "América Central",
	"República Dominicana":  "América Central",
	"Trinidade e Tobago":    "América Central",

	"Canadá":         "América do Norte",
	"Estados Unidos": "América do Norte",
	"México":         "América do Norte",

	"Argentina": "América do Sul",
	"Bolívia":   "América do Sul",
	"Brasil":    "América do Sul",
	"Chile":     "América do Sul",
	"Colômbia":  "América do Sul",
	"Equador":   "América do Sul",
	"Guiana":    "América do Sul",
	"Paraguai":  "América do Sul",
	"Peru":      "América do Sul",
	"Suriname":  "América do Sul",
	"Uruguai":   "América do Sul",
	"Venezuela": "América do Sul",

	"Arábia Saudita":          "Ásia",
	"Bangladesh":              "Ásia",
	"Cazaquistão":             "Ásia",
	"China":                   "Ásia",
	"Cingapura":               "Ásia",
	"Coréia do Sul":           "Ásia",
	"Emirados Árabes Unidos":  "Ásia",
	"Filipinas":               "Ásia",
	"Hong Kong":               "Ásia",
	"Índia":                   "Ásia",
	"Indonésia":               "Ásia",
	"Iraque":                  "Ásia",
	"Israel":                  "Ásia",
	"Japão":                   "Ásia",
	"Líbano":                  "Ásia",
	"Malásia":                 "Ásia",
	"Taiwan":                  "Ásia",
	"Tailândia":               "Ásia",
	"Turquia":                 "Ásia",
	"Vietnã":                  "Ásia",

	"Alemanha":        "Europa",
	"Áustria":         "Europa",
	"Bélgica":         "Europa",
	"Dinamarca":       "Europa",
	"Eslováquia":      "Europa",
	"Espanha":         "Europa",
	"Finlândia":       "Europa",
	"França":          "Europa",
	"Grécia":          "Europa",
	"Irlanda":         "Europa",
	"Itália":          "Europa",
	"Luxemburgo":      "Europa",
	"Noruega":         "Europa",
	"Países Baixos":   "Europa",
	"Polônia":         "Europa",
	"Portugal":        "Europa",
	"Reino Unido":     "Europa",
	"República Tcheca": "Europa",
	"Rússia":          "Europa",
	"Suécia":          "Europa",
	"Suíça":           "Europa",

	"Austrália":      "Oceania",
	"Ilhas Cocos":    "Oceania",
	"Ilhas Marshall": "Oceania",
	"Nova Zelândia":  "Oceania",
}

// CorrectCountry applies the replacement table to a raw country label.
func CorrectCountry(s string) string {
	if fixed, ok := countryReplacements[s]; ok {
		return fixed
	}
	return s
}

// ContinentOf looks up the continent for a corrected country label.
func ContinentOf(country string) (string, bool) {
	c, ok := countryContinents[country]
	return c, ok
}
