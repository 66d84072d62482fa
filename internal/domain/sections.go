package domain

// Sections holds the optional information blocks of a property. A nil
// section has never been saved.
type Sections struct {
	CheckInOut           *CheckInOut           `json:"checkInOut,omitempty"`
	Wifi                 *Wifi                 `json:"wifi,omitempty"`
	Equipment            *Equipment            `json:"equipment,omitempty"`
	Instructions         *Instructions         `json:"instructions,omitempty"`
	Rules                *Rules                `json:"rules,omitempty"`
	Contacts             *Contacts             `json:"contacts,omitempty"`
	LocalRecommendations *LocalRecommendations `json:"localRecommendations,omitempty"`
	Parking              *Parking              `json:"parking,omitempty"`
	Transport            *Transport            `json:"transport,omitempty"`
	Security             *Security             `json:"security,omitempty"`
	Services             *Services             `json:"services,omitempty"`
	BabyKids             *BabyKids             `json:"babyKids,omitempty"`
	Pets                 *Pets                 `json:"pets,omitempty"`
	Entertainment        *Entertainment        `json:"entertainment,omitempty"`
	Outdoor              *Outdoor              `json:"outdoor,omitempty"`
	Neighborhood         *Neighborhood         `json:"neighborhood,omitempty"`
	Emergency            *Emergency            `json:"emergency,omitempty"`
}

func (s Sections) Empty() bool {
	return s == Sections{}
}

func (s *Sections) merge(in Sections) {
	if in.CheckInOut != nil {
		s.CheckInOut = in.CheckInOut
	}
	if in.Wifi != nil {
		s.Wifi = in.Wifi
	}
	if in.Equipment != nil {
		s.Equipment = in.Equipment
	}
	if in.Instructions != nil {
		s.Instructions = in.Instructions
	}
	if in.Rules != nil {
		s.Rules = in.Rules
	}
	if in.Contacts != nil {
		s.Contacts = in.Contacts
	}
	if in.LocalRecommendations != nil {
		s.LocalRecommendations = in.LocalRecommendations
	}
	if in.Parking != nil {
		s.Parking = in.Parking
	}
	if in.Transport != nil {
		s.Transport = in.Transport
	}
	if in.Security != nil {
		s.Security = in.Security
	}
	if in.Services != nil {
		s.Services = in.Services
	}
	if in.BabyKids != nil {
		s.BabyKids = in.BabyKids
	}
	if in.Pets != nil {
		s.Pets = in.Pets
	}
	if in.Entertainment != nil {
		s.Entertainment = in.Entertainment
	}
	if in.Outdoor != nil {
		s.Outdoor = in.Outdoor
	}
	if in.Neighborhood != nil {
		s.Neighborhood = in.Neighborhood
	}
	if in.Emergency != nil {
		s.Emergency = in.Emergency
	}
}

type CheckInOut struct {
	Enabled              bool   `json:"enabled"`
	CheckInTime          string `json:"checkInTime,omitempty" validate:"omitempty,max=20"`
	CheckOutTime         string `json:"checkOutTime,omitempty" validate:"omitempty,max=20"`
	SelfCheckIn          bool   `json:"selfCheckIn"`
	EarlyCheckIn         bool   `json:"earlyCheckIn"`
	LateCheckOut         bool   `json:"lateCheckOut"`
	CheckInInstructions  string `json:"checkInInstructions,omitempty"`
	CheckOutInstructions string `json:"checkOutInstructions,omitempty"`
	KeyLocation          string `json:"keyLocation,omitempty"`
	AccessCode           string `json:"accessCode,omitempty"`
	LockboxCode          string `json:"lockboxCode,omitempty"`
	BuildingCode         string `json:"buildingCode,omitempty"`
	IntercomCode         string `json:"intercomCode,omitempty"`
	ParkingCode          string `json:"parkingCode,omitempty"`
	GateCode             string `json:"gateCode,omitempty"`
}

type Wifi struct {
	Enabled           bool   `json:"enabled"`
	NetworkName       string `json:"networkName,omitempty" validate:"omitempty,max=64"`
	Password          string `json:"password,omitempty" validate:"omitempty,max=128"`
	RouterLocation    string `json:"routerLocation,omitempty"`
	ResetInstructions string `json:"resetInstructions,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

type EquipmentItem struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category,omitempty" validate:"omitempty,oneof=bedroom bathroom kitchen living outdoor baby work other"`
}

type Equipment struct {
	Enabled bool            `json:"enabled"`
	Items   []EquipmentItem `json:"items" validate:"max=200,dive"`
}

type Instructions struct {
	Enabled         bool   `json:"enabled"`
	Trash           string `json:"trash,omitempty"`
	Heating         string `json:"heating,omitempty"`
	AirConditioning string `json:"airConditioning,omitempty"`
	HotWater        string `json:"hotWater,omitempty"`
	Appliances      string `json:"appliances,omitempty"`
	Laundry         string `json:"laundry,omitempty"`
	Dishwasher      string `json:"dishwasher,omitempty"`
	Oven            string `json:"oven,omitempty"`
	CoffeeMachine   string `json:"coffeeMachine,omitempty"`
	Television      string `json:"television,omitempty"`
	Sound           string `json:"sound,omitempty"`
	Blinds          string `json:"blinds,omitempty"`
	Alarm           string `json:"alarm,omitempty"`
	Safe            string `json:"safe,omitempty"`
	Pool            string `json:"pool,omitempty"`
	Spa             string `json:"spa,omitempty"`
	Garden          string `json:"garden,omitempty"`
	Barbecue        string `json:"barbecue,omitempty"`
	Fireplace       string `json:"fireplace,omitempty"`
	Other           string `json:"other,omitempty"`
}

type Rules struct {
	Enabled         bool     `json:"enabled"`
	SmokingAllowed  bool     `json:"smokingAllowed"`
	PetsAllowed     bool     `json:"petsAllowed"`
	PartiesAllowed  bool     `json:"partiesAllowed"`
	ChildrenAllowed bool     `json:"childrenAllowed"`
	MaxGuests       int      `json:"maxGuests,omitempty" validate:"omitempty,min=1,max=100"`
	QuietHours      string   `json:"quietHours,omitempty"`
	HouseRules      []string `json:"houseRules,omitempty" validate:"omitempty,max=50,dive,max=300"`
	AdditionalRules string   `json:"additionalRules,omitempty"`
}

type Contact struct {
	ID    string `json:"id" validate:"required"`
	Type  string `json:"type" validate:"omitempty,oneof=host concierge cleaning maintenance emergency neighbor other"`
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone" validate:"required,max=40"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Notes string `json:"notes,omitempty"`
}

type Contacts struct {
	Enabled  bool      `json:"enabled"`
	Contacts []Contact `json:"contacts" validate:"max=50,dive"`
}

type Recommendation struct {
	ID          string `json:"id" validate:"required"`
	Category    string `json:"category" validate:"omitempty,oneof=restaurant cafe bar bakery grocery market pharmacy doctor hospital attraction beach park sport shopping nightlife culture other"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty" validate:"omitempty,max=300"`
	Distance    string `json:"distance,omitempty"`
	Rating      int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

type LocalRecommendations struct {
	Enabled         bool             `json:"enabled"`
	Recommendations []Recommendation `json:"recommendations" validate:"max=100,dive"`
}

type Parking struct {
	Enabled      bool   `json:"enabled"`
	Available    bool   `json:"available"`
	Type         string `json:"type,omitempty" validate:"omitempty,oneof=street garage driveway private public"`
	Free         bool   `json:"free"`
	Price        string `json:"price,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	AccessCode   string `json:"accessCode,omitempty"`
}

type Transport struct {
	Enabled        bool   `json:"enabled"`
	NearestBus     string `json:"nearestBus,omitempty"`
	NearestMetro   string `json:"nearestMetro,omitempty"`
	NearestTrain   string `json:"nearestTrain,omitempty"`
	NearestTram    string `json:"nearestTram,omitempty"`
	TaxiInfo       string `json:"taxiInfo,omitempty"`
	BikeRental     string `json:"bikeRental,omitempty"`
	CarRental      string `json:"carRental,omitempty"`
	AirportShuttle string `json:"airportShuttle,omitempty"`
	WalkingInfo    string `json:"walkingInfo,omitempty"`
}

type Security struct {
	Enabled                   bool   `json:"enabled"`
	HasAlarm                  bool   `json:"hasAlarm"`
	AlarmCode                 string `json:"alarmCode,omitempty"`
	AlarmInstructions         string `json:"alarmInstructions,omitempty"`
	HasSafe                   bool   `json:"hasSafe"`
	SafeCode                  string `json:"safeCode,omitempty"`
	SafeLocation              string `json:"safeLocation,omitempty"`
	HasFireExtinguisher       bool   `json:"hasFireExtinguisher"`
	FireExtinguisherLocation  string `json:"fireExtinguisherLocation,omitempty"`
	HasFirstAidKit            bool   `json:"hasFirstAidKit"`
	FirstAidKitLocation       string `json:"firstAidKitLocation,omitempty"`
	HasSmokeDetector          bool   `json:"hasSmokeDetector"`
	HasCarbonMonoxideDetector bool   `json:"hasCarbonMonoxideDetector"`
	SecurityNotes             string `json:"securityNotes,omitempty"`
}

type Services struct {
	Enabled           bool   `json:"enabled"`
	LinensIncluded    bool   `json:"linensIncluded"`
	TowelsIncluded    bool   `json:"towelsIncluded"`
	ToiletryIncluded  bool   `json:"toiletryIncluded"`
	CleaningIncluded  bool   `json:"cleaningIncluded"`
	CleaningFrequency string `json:"cleaningFrequency,omitempty"`
	BreakfastIncluded bool   `json:"breakfastIncluded"`
	BreakfastDetails  string `json:"breakfastDetails,omitempty"`
	ConciergeService  string `json:"conciergeService,omitempty"`
	GroceryDelivery   string `json:"groceryDelivery,omitempty"`
	LuggageStorage    bool   `json:"luggageStorage"`
	LaundryService    bool   `json:"laundryService"`
}

type BabyKids struct {
	Enabled           bool   `json:"enabled"`
	HasCrib           bool   `json:"hasCrib"`
	HasHighChair      bool   `json:"hasHighChair"`
	HasBabyGate       bool   `json:"hasBabyGate"`
	HasChildProofing  bool   `json:"hasChildProofing"`
	KidsToysAvailable bool   `json:"kidsToysAvailable"`
	NearbyPlaygrounds string `json:"nearbyPlaygrounds,omitempty"`
	BabysitterContact string `json:"babysitterContact,omitempty"`
	AdditionalInfo    string `json:"additionalInfo,omitempty"`
}

type Pets struct {
	Enabled               bool   `json:"enabled"`
	PetsAllowed           bool   `json:"petsAllowed"`
	PetFee                string `json:"petFee,omitempty"`
	PetRules              string `json:"petRules,omitempty"`
	DogWalkingAreas       string `json:"dogWalkingAreas,omitempty"`
	NearbyVet             string `json:"nearbyVet,omitempty"`
	NearbyPetStore        string `json:"nearbyPetStore,omitempty"`
	PetEquipmentAvailable string `json:"petEquipmentAvailable,omitempty"`
}

type Entertainment struct {
	Enabled             bool   `json:"enabled"`
	HasTv               bool   `json:"hasTv"`
	TvChannels          string `json:"tvChannels,omitempty"`
	HasNetflix          bool   `json:"hasNetflix"`
	NetflixInstructions string `json:"netflixInstructions,omitempty"`
	HasSpotify          bool   `json:"hasSpotify"`
	SpotifyInstructions string `json:"spotifyInstructions,omitempty"`
	HasGameConsole      bool   `json:"hasGameConsole"`
	GameConsoleDetails  string `json:"gameConsoleDetails,omitempty"`
	BoardGames          string `json:"boardGames,omitempty"`
	Books               string `json:"books,omitempty"`
}

type Outdoor struct {
	Enabled      bool   `json:"enabled"`
	HasGarden    bool   `json:"hasGarden"`
	GardenInfo   string `json:"gardenInfo,omitempty"`
	HasTerrace   bool   `json:"hasTerrace"`
	TerraceInfo  string `json:"terraceInfo,omitempty"`
	HasBalcony   bool   `json:"hasBalcony"`
	BalconyInfo  string `json:"balconyInfo,omitempty"`
	HasPool      bool   `json:"hasPool"`
	PoolInfo     string `json:"poolInfo,omitempty"`
	PoolRules    string `json:"poolRules,omitempty"`
	HasSpa       bool   `json:"hasSpa"`
	SpaInfo      string `json:"spaInfo,omitempty"`
	HasBarbecue  bool   `json:"hasBarbecue"`
	BarbecueInfo string `json:"barbecueInfo,omitempty"`
}

type Neighborhood struct {
	Enabled           bool   `json:"enabled"`
	Description       string `json:"description,omitempty"`
	NoiseLevel        string `json:"noiseLevel,omitempty" validate:"omitempty,oneof=quiet moderate lively"`
	NeighborInfo      string `json:"neighborInfo,omitempty"`
	NearbyAttractions string `json:"nearbyAttractions,omitempty"`
	SafetyTips        string `json:"safetyTips,omitempty"`
}

type Emergency struct {
	Enabled                 bool   `json:"enabled"`
	EmergencyNumber         string `json:"emergencyNumber,omitempty"`
	PoliceNumber            string `json:"policeNumber,omitempty"`
	FireNumber              string `json:"fireNumber,omitempty"`
	AmbulanceNumber         string `json:"ambulanceNumber,omitempty"`
	NearestHospital         string `json:"nearestHospital,omitempty"`
	NearestHospitalAddress  string `json:"nearestHospitalAddress,omitempty"`
	NearestPharmacy         string `json:"nearestPharmacy,omitempty"`
	NearestPharmacyHours    string `json:"nearestPharmacyHours,omitempty"`
	DoctorOnCall            string `json:"doctorOnCall,omitempty"`
	AdditionalEmergencyInfo string `json:"additionalEmergencyInfo,omitempty"`
}
