package tray

// SVG content for the tray icon
const SVGContent = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" width="16" height="16">
  <!-- Screen -->
  <rect x="1" y="2" width="14" height="10" rx="1" fill="none" stroke="#333333" stroke-width="1.2"/>
  <!-- Stand -->
  <line x1="8" y1="12" x2="8" y2="14" stroke="#333333" stroke-width="1.2"/>
  <line x1="5" y1="14" x2="11" y2="14" stroke="#333333" stroke-width="1.2" stroke-linecap="round"/>

  <!-- Shared sub-region outline -->
  <rect x="3" y="4" width="6" height="5" fill="none" stroke="#d40000" stroke-width="1.2" stroke-dasharray="2,1"/>
</svg>`

func getIcon() []byte {
	// TODO: rasterize SVGContent to PNG at build time; systray needs bitmap data
	return nil
}
