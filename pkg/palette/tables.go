package palette

// Qualitative tables, in matplotlib order.
var qualitative = map[string][]string{
	"tab10": {"1f77b4", "ff7f0e", "2ca02c", "d62728", "9467bd", "8c564b", "e377c2", "7f7f7f", "bcbd22", "17becf"},
	"tab20": {
		"1f77b4", "aec7e8", "ff7f0e", "ffbb78", "2ca02c", "98df8a", "d62728", "ff9896", "9467bd", "c5b0d5",
		"8c564b", "c49c94", "e377c2", "f7b6d2", "7f7f7f", "c7c7c7", "bcbd22", "dbdb8d", "17becf", "9edae5",
	},
	"Set1":    {"e41a1c", "377eb8", "4daf4a", "984ea3", "ff7f00", "ffff33", "a65628", "f781bf", "999999"},
	"Set2":    {"66c2a5", "fc8d62", "8da0cb", "e78ac3", "a6d854", "ffd92f", "e5c494", "b3b3b3"},
	"Set3":    {"8dd3c7", "ffffb3", "bebada", "fb8072", "80b1d3", "fdb462", "b3de69", "fccde5", "d9d9d9", "bc80bd", "ccebc5", "ffed6f"},
	"Pastel1": {"fbb4ae", "b3cde3", "ccebc5", "decbe4", "fed9a6", "ffffcc", "e5d8bd", "fddaec", "f2f2f2"},
	"Pastel2": {"b3e2cd", "fdcdac", "cbd5e8", "f4cae4", "e6f5c9", "fff2ae", "f1e2cc", "cccccc"},
	"Dark2":   {"1b9e77", "d95f02", "7570b3", "e7298a", "66a61e", "e6ab02", "a6761d", "666666"},
	"Accent":  {"7fc97f", "beaed4", "fdc086", "ffff99", "386cb0", "f0027f", "bf5b17", "666666"},
	"Paired":  {"a6cee3", "1f78b4", "b2df8a", "33a02c", "fb9a99", "e31a1c", "fdbf6f", "ff7f00", "cab2d6", "6a3d9a", "ffff99", "b15928"},
}

// Continuous maps as evenly spaced stops, interpolated linearly.
var continuous = map[string][]string{
	"balance":  {"181c43", "1a3f9a", "3a7bb8", "8cb0cb", "f1ecec", "d99a84", "b84a3b", "7e1420", "3c0912"},
	"haline":   {"2a186c", "14439c", "206e8b", "3d8f83", "5caa72", "95c25a", "d2d36b", "fdef9a"},
	"thermal":  {"042333", "2c3395", "5e3c8f", "8e4b88", "c15a74", "ea6f52", "fb9a3d", "f5c946", "e8fa5b"},
	"deep":     {"fdfecc", "a4dfa4", "5ebfa8", "3f9aad", "3e73a6", "414c8f", "3a2f5d", "281a2c"},
	"viridis":  {"440154", "482878", "3e4989", "31688e", "26828e", "1f9e89", "35b779", "6ece58", "b5de2b", "fde725"},
	"coolwarm": {"3b4cc0", "6788ee", "9abbff", "c9d7f0", "edd1c2", "f7a889", "e26952", "b40426"},
	"Greys":    {"ffffff", "f0f0f0", "d9d9d9", "bdbdbd", "969696", "737373", "525252", "252525", "000000"},
}

// cmoceanNames lists the maps served under the cmocean family.
var cmoceanNames = map[string]bool{"balance": true, "haline": true, "thermal": true, "deep": true}
