package adapter

import (
	"fmt"

	m "github.com/mouse-blink/knit/internal/model"
)

// Templates renders the static runtime scaffolding wrapped around the
// concatenated modules.
type Templates interface {
	// Header opens the bundle IIFE and defines the module runtime.
	Header() []byte

	// Footer requires the entry module and closes the IIFE.
	Footer() []byte

	// FileHeader opens the registration of one module.
	FileHeader(id int, path m.Path) []byte

	// FileFooter closes the registration of one module.
	FileFooter(id int, path m.Path) []byte

	// JSONPrefix turns a raw JSON body into a module assignment.
	JSONPrefix() []byte
}

// The cache entry for a module is created before its body runs so cyclic
// requires observe the partially built exports object, matching Node.
const bundleHeader = `(function() {
var __modules = {};
var __moduleCache = {};
function __require(uid, parentUid) {
	if(__moduleCache[uid] === undefined) {
		var module = {"exports": {}, "loaded": false};
		__moduleCache[uid] = module;
		if(uid === 0 && typeof require === "function") {
			require.main = module;
		}
		__modules[uid].call(module.exports, module, module.exports);
		module.loaded = true;
	}
	return __moduleCache[uid].exports;
}
function __getFilename(path) {
	return require("path").resolve(__dirname + "/" + path);
}
function __getDirname(path) {
	return require("path").resolve(__dirname + "/" + path + "/..");
}
`

const bundleFooter = `return __require(0);
})();
`

const (
	fileHeaderFormat = "\n/********** Start module %d: %s **********/\n__modules[%d] = function(module, exports) {\n"
	fileFooterFormat = "\n};\n/********** End module %d: %s **********/\n"
	jsonModulePrefix = "module.exports = "
)

type bundleTemplates struct{}

// NewBundleTemplates constructs the Templates implementation shipped with the
// CLI.
func NewBundleTemplates() Templates {
	return &bundleTemplates{}
}

func (t *bundleTemplates) Header() []byte {
	return []byte(bundleHeader)
}

func (t *bundleTemplates) Footer() []byte {
	return []byte(bundleFooter)
}

func (t *bundleTemplates) FileHeader(id int, path m.Path) []byte {
	return []byte(fmt.Sprintf(fileHeaderFormat, id, path, id))
}

func (t *bundleTemplates) FileFooter(id int, path m.Path) []byte {
	return []byte(fmt.Sprintf(fileFooterFormat, id, path))
}

func (t *bundleTemplates) JSONPrefix() []byte {
	return []byte(jsonModulePrefix)
}
