package cmd

const rootLongDescription = `Knit concatenates a CommonJS project into a single JavaScript file.

Starting from each entry file it statically discovers require("...")
references, assigns every reachable file a stable numeric id, rewrites the
references to indexed lookups, and streams the result wrapped in a small
module runtime.

Examples:
  knit src/index.js                        print the bundle to stdout
  knit src/index.js -o dist/bundle.js      write the bundle to a file
  knit a.js b.js -o out/a.js -o out/b.js   bundle several entries at once
  knit src/index.js -b -o dist/app.js      target a browser runtime`

const listLongDescription = `List every module a bundle would contain without writing any output.

The traversal is the same one bundling performs: modules are shown with
the ids they would receive, followed by the native addons that would be
left out of the bundle.`

const viewLongDescription = `Browse the modules of a bundle in an interactive terminal list.

The traversal is the same one bundling performs. Use / to filter by path
and q to quit. Without a terminal the static table is printed instead.`
