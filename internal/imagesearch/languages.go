package imagesearch

// Locale holds the Brave search_lang and country parameters for a language.
type Locale struct {
	SearchLang string
	Country    string
}

// Languages maps language names, as reported by the vision model, to Brave
// search locales. Japanese uses "jp", which is Brave specific and not ISO 639.
var Languages = map[string]Locale{
	"Arabic":                   {SearchLang: "ar", Country: "SA"},
	"Basque":                   {SearchLang: "eu", Country: "ES"},
	"Bengali":                  {SearchLang: "bn", Country: "IN"},
	"Bulgarian":                {SearchLang: "bg", Country: "ALL"},
	"Catalan":                  {SearchLang: "ca", Country: "ES"},
	"Chinese (Simplified)":     {SearchLang: "zh-hans", Country: "CN"},
	"Chinese (Traditional)":    {SearchLang: "zh-hant", Country: "TW"},
	"Croatian":                 {SearchLang: "hr", Country: "ALL"},
	"Czech":                    {SearchLang: "cs", Country: "ALL"},
	"Danish":                   {SearchLang: "da", Country: "DK"},
	"Dutch":                    {SearchLang: "nl", Country: "NL"},
	"English":                  {SearchLang: "en", Country: "US"},
	"English (United Kingdom)": {SearchLang: "en-gb", Country: "GB"},
	"Estonian":                 {SearchLang: "et", Country: "ALL"},
	"Finnish":                  {SearchLang: "fi", Country: "FI"},
	"French":                   {SearchLang: "fr", Country: "FR"},
	"Galician":                 {SearchLang: "gl", Country: "ES"},
	"German":                   {SearchLang: "de", Country: "DE"},
	"Greek":                    {SearchLang: "el", Country: "GR"},
	"Gujarati":                 {SearchLang: "gu", Country: "IN"},
	"Hebrew":                   {SearchLang: "he", Country: "ALL"},
	"Hindi":                    {SearchLang: "hi", Country: "IN"},
	"Hungarian":                {SearchLang: "hu", Country: "ALL"},
	"Icelandic":                {SearchLang: "is", Country: "ALL"},
	"Italian":                  {SearchLang: "it", Country: "IT"},
	"Japanese":                 {SearchLang: "jp", Country: "JP"},
	"Kannada":                  {SearchLang: "kn", Country: "IN"},
	"Korean":                   {SearchLang: "ko", Country: "KR"},
	"Latvian":                  {SearchLang: "lv", Country: "ALL"},
	"Lithuanian":               {SearchLang: "lt", Country: "ALL"},
	"Malay":                    {SearchLang: "ms", Country: "MY"},
	"Malayalam":                {SearchLang: "ml", Country: "IN"},
	"Marathi":                  {SearchLang: "mr", Country: "IN"},
	"Norwegian Bokmål":         {SearchLang: "nb", Country: "NO"},
	"Polish":                   {SearchLang: "pl", Country: "PL"},
	"Portuguese (Brazil)":      {SearchLang: "pt-br", Country: "BR"},
	"Portuguese (Portugal)":    {SearchLang: "pt-pt", Country: "PT"},
	"Punjabi":                  {SearchLang: "pa", Country: "IN"},
	"Romanian":                 {SearchLang: "ro", Country: "ALL"},
	"Russian":                  {SearchLang: "ru", Country: "RU"},
	"Serbian":                  {SearchLang: "sr", Country: "ALL"},
	"Slovak":                   {SearchLang: "sk", Country: "ALL"},
	"Slovenian":                {SearchLang: "sl", Country: "ALL"},
	"Spanish":                  {SearchLang: "es", Country: "ES"},
	"Swedish":                  {SearchLang: "sv", Country: "SE"},
	"Tamil":                    {SearchLang: "ta", Country: "IN"},
	"Telugu":                   {SearchLang: "te", Country: "IN"},
	"Thai":                     {SearchLang: "th", Country: "ALL"},
	"Turkish":                  {SearchLang: "tr", Country: "TR"},
	"Ukrainian":                {SearchLang: "uk", Country: "ALL"},
	"Vietnamese":               {SearchLang: "vi", Country: "ALL"},
}

