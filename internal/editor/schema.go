package editor

import (
	"encoding/json"
	"strings"
	"unicode"

	"staybook/internal/domain"
)

// Kind is the editing shape of a field.
type Kind int

const (
	Text Kind = iota
	Bool
	Number
	StringList
)

// Field describes one editable value. Default seeds a section that was
// never saved; Fallback also replaces a blank value when cleaning.
type Field struct {
	Name     string
	Kind     Kind
	Default  any
	Fallback string
	Required bool
	Multi    bool // rendered as a textarea
	Integer  bool
	Min, Max float64
}

// Label turns the camelCase field name into words for display.
func (f Field) Label() string { return humanize(f.Name) }

// ListSpec describes the ordered sub-entities of a list-typed section.
// Entries with any Identity field blank are dropped by cleaning.
type ListSpec struct {
	Key      string
	Fields   []Field
	Identity []string
}

func (l *ListSpec) field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Schema is the declarative description of one category's form. Key is the
// section's JSON key; it is empty for general, whose fields are top level.
type Schema struct {
	Category CategoryID
	Key      string
	Label    string
	Fields   []Field
	List     *ListSpec
}

func (s *Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func text(name string) Field {
	return Field{Name: name, Kind: Text}
}

func textarea(name string) Field {
	return Field{Name: name, Kind: Text, Multi: true}
}

func textDefault(name, def string) Field {
	return Field{Name: name, Kind: Text, Default: def}
}

func textFallback(name, def string) Field {
	return Field{Name: name, Kind: Text, Default: def, Fallback: def}
}

func required(name string) Field {
	return Field{Name: name, Kind: Text, Required: true}
}

func flag(name string) Field {
	return Field{Name: name, Kind: Bool, Default: false}
}

func flagOn(name string) Field {
	return Field{Name: name, Kind: Bool, Default: true}
}

func strList(name string) Field {
	return Field{Name: name, Kind: StringList}
}

func integer(name string, min, max float64) Field {
	return Field{Name: name, Kind: Number, Integer: true, Min: min, Max: max}
}

var schemas = []*Schema{
	{Category: General, Label: "General", Fields: []Field{
		required("name"), textarea("description"), required("address"), required("city"),
		required("country"), text("zipCode"), strList("images"),
	}},
	{Category: CheckInOut, Key: "checkInOut", Label: "Check-in / Check-out", Fields: []Field{
		textFallback("checkInTime", "15:00"), textFallback("checkOutTime", "11:00"),
		flag("selfCheckIn"), flag("earlyCheckIn"), flag("lateCheckOut"),
		textarea("checkInInstructions"), textarea("checkOutInstructions"), text("keyLocation"),
		text("accessCode"), text("lockboxCode"), text("buildingCode"), text("intercomCode"),
		text("parkingCode"), text("gateCode"),
	}},
	{Category: Wifi, Key: "wifi", Label: "Wi-Fi", Fields: []Field{
		text("networkName"), text("password"), text("routerLocation"),
		textarea("resetInstructions"), textarea("notes"),
	}},
	{Category: Equipment, Key: "equipment", Label: "Equipment", List: &ListSpec{
		Key:      "items",
		Fields:   []Field{text("name"), textFallback("category", "other")},
		Identity: []string{"name"},
	}},
	{Category: Rules, Key: "rules", Label: "House rules", Fields: []Field{
		flag("smokingAllowed"), flag("petsAllowed"), flag("partiesAllowed"), flagOn("childrenAllowed"),
		integer("maxGuests", 1, 100), text("quietHours"), strList("houseRules"), textarea("additionalRules"),
	}},
	{Category: Instructions, Key: "instructions", Label: "Instructions", Fields: []Field{
		textarea("trash"), textarea("heating"), textarea("airConditioning"), textarea("hotWater"),
		textarea("appliances"), textarea("laundry"), textarea("dishwasher"), textarea("oven"),
		textarea("coffeeMachine"), textarea("television"), textarea("sound"), textarea("blinds"),
		textarea("alarm"), textarea("safe"), textarea("pool"), textarea("spa"), textarea("garden"),
		textarea("barbecue"), textarea("fireplace"), textarea("other"),
	}},
	{Category: Parking, Key: "parking", Label: "Parking", Fields: []Field{
		flagOn("available"), textDefault("type", "street"), flagOn("free"), text("price"),
		textarea("instructions"), text("accessCode"),
	}},
	{Category: Transport, Key: "transport", Label: "Transport", Fields: []Field{
		text("nearestBus"), text("nearestMetro"), text("nearestTrain"), text("nearestTram"),
		text("taxiInfo"), text("bikeRental"), text("carRental"), text("airportShuttle"), textarea("walkingInfo"),
	}},
	{Category: Security, Key: "security", Label: "Security", Fields: []Field{
		flag("hasAlarm"), text("alarmCode"), textarea("alarmInstructions"),
		flag("hasSafe"), text("safeCode"), text("safeLocation"),
		flag("hasFireExtinguisher"), text("fireExtinguisherLocation"),
		flag("hasFirstAidKit"), text("firstAidKitLocation"),
		flag("hasSmokeDetector"), flag("hasCarbonMonoxideDetector"), textarea("securityNotes"),
	}},
	{Category: Services, Key: "services", Label: "Services", Fields: []Field{
		flagOn("linensIncluded"), flagOn("towelsIncluded"), flag("toiletryIncluded"),
		flag("cleaningIncluded"), text("cleaningFrequency"), flag("breakfastIncluded"),
		textarea("breakfastDetails"), text("conciergeService"), text("groceryDelivery"),
		flag("luggageStorage"), flag("laundryService"),
	}},
	{Category: BabyKids, Key: "babyKids", Label: "Baby & kids", Fields: []Field{
		flag("hasCrib"), flag("hasHighChair"), flag("hasBabyGate"), flag("hasChildProofing"),
		flag("kidsToysAvailable"), text("nearbyPlaygrounds"), text("babysitterContact"),
		textarea("additionalInfo"),
	}},
	{Category: Pets, Key: "pets", Label: "Pets", Fields: []Field{
		flag("petsAllowed"), text("petFee"), textarea("petRules"), text("dogWalkingAreas"),
		text("nearbyVet"), text("nearbyPetStore"), text("petEquipmentAvailable"),
	}},
	{Category: Entertainment, Key: "entertainment", Label: "Entertainment", Fields: []Field{
		flag("hasTv"), text("tvChannels"), flag("hasNetflix"), textarea("netflixInstructions"),
		flag("hasSpotify"), textarea("spotifyInstructions"), flag("hasGameConsole"),
		text("gameConsoleDetails"), text("boardGames"), text("books"),
	}},
	{Category: Outdoor, Key: "outdoor", Label: "Outdoor", Fields: []Field{
		flag("hasGarden"), text("gardenInfo"), flag("hasTerrace"), text("terraceInfo"),
		flag("hasBalcony"), text("balconyInfo"), flag("hasPool"), text("poolInfo"),
		textarea("poolRules"), flag("hasSpa"), text("spaInfo"), flag("hasBarbecue"), text("barbecueInfo"),
	}},
	{Category: Neighborhood, Key: "neighborhood", Label: "Neighborhood", Fields: []Field{
		textarea("description"), textDefault("noiseLevel", "moderate"), textarea("neighborInfo"),
		textarea("nearbyAttractions"), textarea("safetyTips"),
	}},
	{Category: Emergency, Key: "emergency", Label: "Emergency", Fields: []Field{
		textDefault("emergencyNumber", "112"), textDefault("policeNumber", "17"),
		textDefault("fireNumber", "18"), textDefault("ambulanceNumber", "15"),
		text("nearestHospital"), text("nearestHospitalAddress"), text("nearestPharmacy"),
		text("nearestPharmacyHours"), text("doctorOnCall"), textarea("additionalEmergencyInfo"),
	}},
	{Category: Contacts, Key: "contacts", Label: "Contacts", List: &ListSpec{
		Key: "contacts",
		Fields: []Field{
			textFallback("type", "host"), text("name"), text("phone"), text("email"), textarea("notes"),
		},
		Identity: []string{"name", "phone"},
	}},
	{Category: Recommendations, Key: "localRecommendations", Label: "Recommendations", List: &ListSpec{
		Key: "recommendations",
		Fields: []Field{
			textFallback("category", "restaurant"), text("name"), textarea("description"), text("address"),
			text("phone"), text("website"), text("distance"), integer("rating", 1, 5),
		},
		Identity: []string{"name"},
	}},
}

// Schemas returns the form description of every category in navigation order.
func Schemas() []*Schema { return schemas }

func SchemaFor(id CategoryID) (*Schema, bool) {
	for _, s := range schemas {
		if s.Category == id {
			return s, true
		}
	}
	return nil, false
}

// propertyDoc flattens p into its wire document so schemas can address
// sections by JSON key.
func propertyDoc(p *domain.Property) map[string]any {
	doc := map[string]any{}
	if p == nil {
		return doc
	}
	b, err := json.Marshal(p)
	if err != nil {
		return doc
	}
	_ = json.Unmarshal(b, &doc)
	return doc
}

func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
