package updater

// DatasetSources lists the HDX dataset slugs of the WFP food price
// datasets the updater refreshes. The country name used for the local
// file is derived by stripping the common prefix.
var DatasetSources = []string{
	"wfp-food-prices-for-afghanistan",
	"wfp-food-prices-for-angola",
	"wfp-food-prices-for-argentina",
	"wfp-food-prices-for-armenia",
	"wfp-food-prices-for-azerbaijan",
	"wfp-food-prices-for-burundi",
	"wfp-food-prices-for-benin",
	"wfp-food-prices-for-burkina-faso",
	"wfp-food-prices-for-bangladesh",
	"wfp-food-prices-for-belarus",
	"wfp-food-prices-for-bolivia-plurinational-state-of",
	"wfp-food-prices-for-bhutan",
	"wfp-food-prices-for-central-african-republic",
	"wfp-food-prices-for-china",
	"wfp-food-prices-for-cote-d-ivoire",
	"wfp-food-prices-for-cameroon",
	"wfp-food-prices-for-democratic-republic-of-the-congo",
	"wfp-food-prices-for-congo",
	"wfp-food-prices-for-colombia",
	"wfp-food-prices-for-cabo-verde",
	"wfp-food-prices-for-costa-rica",
	"wfp-food-prices-for-djibouti",
	"wfp-food-prices-for-dominican-republic",
	"wfp-food-prices-for-algeria",
	"wfp-food-prices-for-ecuador",
	"wfp-food-prices-for-egypt",
	"wfp-food-prices-for-eritrea",
	"wfp-food-prices-for-ethiopia",
	"wfp-food-prices-for-fiji",
	"wfp-food-prices-for-gabon",
	"wfp-food-prices-for-georgia",
	"wfp-food-prices-for-ghana",
	"wfp-food-prices-for-guinea",
	"wfp-food-prices-for-gambia",
	"wfp-food-prices-for-guinea-bissau",
	"wfp-food-prices-for-guatemala",
	"wfp-food-prices-for-honduras",
	"wfp-food-prices-for-haiti",
	"wfp-food-prices-for-indonesia",
	"wfp-food-prices-for-india",
	"wfp-food-prices-for-iran-islamic-republic-of",
	"wfp-food-prices-for-iraq",
	"wfp-food-prices-for-jordan",
	"wfp-food-prices-for-japan",
	"wfp-food-prices-for-kazakhstan",
	"wfp-food-prices-for-kenya",
	"wfp-food-prices-for-kyrgyzstan",
	"wfp-food-prices-for-cambodia",
	"wfp-food-prices-for-lao-people-s-democratic-republic",
	"wfp-food-prices-for-lebanon",
	"wfp-food-prices-for-liberia",
	"wfp-food-prices-for-libya",
	"wfp-food-prices-for-sri-lanka",
	"wfp-food-prices-for-lesotho",
	"wfp-food-prices-for-republic-of-moldova",
	"wfp-food-prices-for-madagascar",
	"wfp-food-prices-for-mexico",
	"wfp-food-prices-for-mali",
	"wfp-food-prices-for-myanmar",
	"wfp-food-prices-for-mongolia",
	"wfp-food-prices-for-mozambique",
	"wfp-food-prices-for-mauritania",
	"wfp-food-prices-for-malawi",
	"wfp-food-prices-for-namibia",
	"wfp-food-prices-for-niger",
	"wfp-food-prices-for-nigeria",
	"wfp-food-prices-for-nicaragua",
	"wfp-food-prices-for-nepal",
	"wfp-food-prices-for-pakistan",
	"wfp-food-prices-for-panama",
	"wfp-food-prices-for-peru",
	"wfp-food-prices-for-philippines",
	"wfp-food-prices-for-paraguay",
	"wfp-food-prices-for-state-of-palestine",
	"wfp-food-prices-for-russian-federation",
	"wfp-food-prices-for-rwanda",
	"wfp-food-prices-for-sudan",
	"wfp-food-prices-for-senegal",
	"wfp-food-prices-for-sierra-leone",
	"wfp-food-prices-for-el-salvador",
	"wfp-food-prices-for-somalia",
	"wfp-food-prices-for-south-sudan",
	"wfp-food-prices-for-eswatini",
	"wfp-food-prices-for-syrian-arab-republic",
	"wfp-food-prices-for-chad",
	"wfp-food-prices-for-togo",
	"wfp-food-prices-for-thailand",
	"wfp-food-prices-for-tajikistan",
	"wfp-food-prices-for-timor-leste",
	"wfp-food-prices-for-turkiye",
	"wfp-food-prices-for-united-republic-of-tanzania",
	"wfp-food-prices-for-uganda",
	"wfp-food-prices-for-ukraine",
	"wfp-food-prices-for-venezuela-bolivarian-republic-of",
	"wfp-food-prices-for-viet-nam",
	"wfp-food-prices-for-yemen",
	"wfp-food-prices-for-south-africa",
	"wfp-food-prices-for-zambia",
	"wfp-food-prices-for-zimbabwe",
}

const slugPrefix = "wfp-food-prices-for-"
