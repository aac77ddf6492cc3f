package checkout

// AddressPreset is the canned address filled in when a country is
// selected. Selecting a country always overwrites the address fields
// with its preset, even over a hand-typed address.
type AddressPreset struct {
	Address string
	City    string
	State   string
	ZipCode string
}

var countryAddressPresets = map[string]AddressPreset{
	"United States": {
		Address: "123 Main Street",
		City:    "New York",
		State:   "NY",
		ZipCode: "10001",
	},
	"Canada": {
		Address: "123 Queen Street",
		City:    "Toronto",
		State:   "ON",
		ZipCode: "M5H 2N2",
	},
	"United Kingdom": {
		Address: "221B Baker Street",
		City:    "London",
		State:   "Greater London",
		ZipCode: "NW1 6XE",
	},
	"Australia": {
		Address: "100 Collins Street",
		City:    "Melbourne",
		State:   "VIC",
		ZipCode: "3000",
	},
	"Singapore": {
		Address: "1 Raffles Place",
		City:    "Singapore",
		State:   "Central Region",
		ZipCode: "048616",
	},
	"Cambodia": {
		Address: "123 Norodom Boulevard",
		City:    "Phnom Penh",
		State:   "Phnom Penh",
		ZipCode: "12000",
	},
	"Thailand": {
		Address: "88 Sukhumvit Road",
		City:    "Bangkok",
		State:   "Bangkok",
		ZipCode: "10110",
	},
	"Vietnam": {
		Address: "10 Nguyen Hue Boulevard",
		City:    "Ho Chi Minh City",
		State:   "Ho Chi Minh",
		ZipCode: "700000",
	},
}

// PresetFor looks up the canned address for a country. Unknown
// countries have no preset and leave the address fields alone.
func PresetFor(country string) (AddressPreset, bool) {
	preset, ok := countryAddressPresets[country]
	return preset, ok
}
