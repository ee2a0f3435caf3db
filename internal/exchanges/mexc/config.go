// Package mexc implements the MEXC exchange adapter as a thin stub: a
// functional URM mapper and provider registration, no REST/WS feature
// handlers yet. Of all the secondary venues this one carries the least
// original_source material (its connector package has WS endpoint specs
// only, no urm.py/provider.py), so it mirrors Binance's Binance-compatible
// wire-symbol convention (BASE+QUOTE concatenation, spot only).
package mexc

const restBaseURL = "https://api.mexc.com"
