package generate

// wordList is the fixed vocabulary for phrase mode. Short, common,
// unambiguous words only.
var wordList = []string{
	"acorn", "amber", "anchor", "apple", "arrow", "aspen", "atlas", "autumn",
	"badge", "bamboo", "basil", "beacon", "birch", "bison", "blaze", "breeze",
	"brick", "bridge", "bronze", "brook", "cabin", "candle", "canyon", "carbon",
	"cedar", "cello", "chalk", "cherry", "cliff", "clover", "cobalt", "comet",
	"copper", "coral", "cotton", "cougar", "crane", "cricket", "crystal", "cypress",
	"daisy", "dawn", "delta", "dune", "eagle", "ember", "falcon", "feather",
	"fern", "flint", "forest", "fossil", "fox", "garnet", "geyser", "ginger",
	"glacier", "granite", "grove", "harbor", "hazel", "heron", "hickory", "hollow",
	"ivory", "jade", "jasper", "juniper", "kestrel", "lagoon", "lantern", "larch",
	"lark", "lava", "lemon", "lilac", "linen", "lotus", "lunar", "lynx",
	"magnet", "maple", "marble", "meadow", "mesa", "mint", "mossy", "nectar",
	"nickel", "north", "oasis", "ocean", "olive", "onyx", "orbit", "orchid",
	"osprey", "otter", "panda", "pebble", "pepper", "pine", "plume", "pond",
	"poplar", "prairie", "prism", "quartz", "quill", "raven", "reef", "ridge",
	"river", "robin", "rowan", "ruby", "saffron", "salmon", "sierra", "silver",
	"slate", "sparrow", "spruce", "stone", "summit", "sunset", "swift", "tansy",
	"teal", "thistle", "thunder", "tiger", "timber", "topaz", "trout", "tulip",
	"tundra", "valley", "velvet", "violet", "walnut", "willow", "winter", "wren",
	"yarrow", "zephyr",
}
