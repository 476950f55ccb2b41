package unit

import "sync"

// DefaultTable is the built-in unit table.
//
// Unit ids follow declaration order and are stored in binary quantity data:
// append new groups at the end and never reorder existing lines.
const DefaultTable = `
undefined    ;
m            * 1e+03 mm          * 1e+02 cm          * 1e+01 dm       ;
m2           * 1e+06 mm2         * 1e+04 cm2         * 1e+02 dm2      ;
m3           * 1e+09 mm3         * 1e+06 cm3         * 1e+03 dm3      ;
s            / 60 min            / 3600 h            / 86400 d           / 3.1536e+07 a      % 0       sqrt(s)   % 0       sqrt(h)  * 1000 ms ;
s/s          / 60 min/s          / 3600 h/s          / 86400 d/s         / 3.1536e+07 a/s ;
m/s          * 100 cm/s          * 360000 cm/h       * 8.64e+06 cm/d     ;
m2/s         * 10000 cm2/s       * 3600 m2/h         * 3.6e+07 cm2/h     ;
m/s2         ;
s/m          * 1 kg/m2sPa        ;
s2/m2        ;
kg           * 1000 g            * 1e+06 mg          ;
kg/ms        ;
kg/s         * 3600 kg/h         * 86400 kg/d        * 1000 g/s          * 3.6e6 g/h         * 8.64e+07 g/d      * 31536e6 g/a   * 1e6 mg/s      * 1e9 µg/s    ;
kg/m2        / 100 kg/dm2        * 10 g/dm2          / 10 g/cm2          * 1e6 mg/m2     ;
kg/m2s       * 1000 g/m2s        * 3.6e+06 g/m2h     * 86.4e+06 g/m2d    * 3600 kg/m2h       * 1e6 mg/m2s    * 1e9 µg/m2s  * 3.6e9 mg/m2h    * 3.6e12 µg/m2h ;
kg/m3        / 1000 kg/dm3       * 1 g/dm3           / 1000 g/cm3        * 1000 g/m3     * 1e6 mg/m3   * 1e9 µg/m3       % 0      log(kg/m3)    % 0    log(g/m3)    % 0    log(mg/m3)    % 0    log(µg/m3);
kg/m3s       * 1000 g/m3s        * 3.6e+06 g/m3h     * 3600 kg/m3h       * 1e6 mg/m3s    * 1e9 µg/m3s  * 3.6e9 mg/m3h    * 3.6e12 µg/m3h ;
kg/m         * 1000 g/m          * 1 g/mm            / 1000 kg/mm        ;
kg/kg        * 1000 g/kg         * 1e6 mg/kg         ;
J            / 1000 kJ           / 1e+06 MJ          / 3.6e+09 MWh       / 3.6e+06 kWh        / 3600     Wh  ;
J/m2         / 1000 kJ/m2        / 1e+06 MJ/m2       / 1e+09 GJ/m2       / 1e+02 J/dm2        / 1e+04 J/cm2       / 3.6e+06 kWh/m2          ;
J/m3         * 1    Ws/m3        / 1000 kJ/m3        / 1e+06 MJ/m3       / 1e+09 GJ/m3       / 1e+03 J/dm3        / 1e+06 J/cm3       / 3.6e+06 kWh/m3          ;
J/m3s        / 1000 kJ/m3s       / 1e+06 MJ/m3s      / 1000 J/dm3s       / 1e+06 J/cm3s       * 3600  J/m3h       * 1    W/m3         / 1000 kW/m3        / 1e+06 MW/m3       / 1000 W/dm3        / 1e+06 W/cm3       / 1e+09 W/mm3       ;
J/m3K        / 1000 kJ/m3K;
J/s          * 3600 J/h          * 86400 J/d         * 86.4 kJ/d         * 1     W            / 1000 kW           / 1e+06 MW          * 1     Nm/s  ;
J/kg         / 1000 kJ/kg        ;
J/kgK        / 1000 kJ/kgK       * 1     Ws/kgK      / 1000 J/gK       / 1000 Ws/gK       ;
J/K          / 1000 kJ/K         ;
J/m2s        * 1    W/m2         / 1000 kW/m2        / 1e+06 MW/m2       / 100 W/dm2         / 10000 W/cm2       ;
W/mK         / 1000 kW/mK        ;
W/m2K        ;
W/m2K2       ;
W/mK2        ;
L/m2s        * 3600 L/m2h        * 86400 L/m2d       * 86400 mm/d        * 3600 mm/h         ;
L/m3s        * 3600 L/m3h        ;
m3/m2s       * 3600 m3/m2h       * 1000 dm3/m2s      * 3.6e+06 dm3/m2h   ;
m3/m2sPa     * 3600 m3/m2hPa     ;
m3/s         * 3600 m3/h         * 1000 dm3/s        * 3.6e+06 dm3/h   ;
m3/m3        * 100 Vol%          ;
m3/m3d       * 100 Vol%/d        ;
---          * 100 %             * 1 1               * 10 1/10           * 8 1/8         ;
---/d        * 100 %/d           ;
K            - 273.15 C          ;
1/K          ;
K/m          ;
m2s/kg       ;
Pa           / 100 hPa           / 1000 kPa          * 1e-05 Bar        * 0.000145038 PSI         * 0.00750062 Torr          ;
1/Pa         ;
Pa/m         / 1000 kPa/m        ;
Lux          / 1000 kLux         ;
Rad          * 57.2958 Deg       ;
m2/kg        ;
m2K/W        ;
1/m          / 100 1/cm          ;
logcm        ;
logm         ;
logPa        ;
K/Pa         ;
mol/kg       / 1000 mol/g        ;
kg/mol       * 1000 g/mol        ;
J/mol        / 1000 kJ/mol       ;
kg/m2s05     * 60 kg/m2h05       ;
1/logcm      ;
mol/m3       / 1000 mol/ltr      / 1000 mol/dm3      / 1e+06 mol/cm3     ;
mol          * 1e+03 mmol        ;
-            ;
mm/mK        ;
mm/m         ;
m3m/m3m      * 1000 m3mm/m3m;
kg/m3sK      * 1000 g/m3sK       * 3.6e+06 g/m3hK    * 3600 kg/m3hK      * 1e6 mg/m3sK   * 1e9 µg/m3sK * 3.6e9 mg/m3hK   * 3.6e12 µg/m3hK ;
1/s          * 60 1/min          * 3600 1/h ;
W/m2s        * 3600 W/m2h        / 1000 kW/m2s       / 1e+06 MW/m2s      / 100 W/dm2s        / 10000 W/cm2s ;
Person/m2    ;
W/Person     / 1000 kW/Person    ;
W/K          ;
kWh/m2a      ;
kWh/a        ;
m2/m3        ;
Kh           ;
`

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	return ParseString(DefaultTable)
})

// Default returns the registry built from DefaultTable. It is parsed once,
// on first use, and shared by all callers.
func Default() (*Registry, error) {
	return defaultRegistry()
}

// MustDefault is Default that panics if the built-in table is invalid.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// ReadDefault parses a fresh, unshared copy of DefaultTable.
func ReadDefault(opts ...Option) (*Registry, error) {
	return ParseString(DefaultTable, opts...)
}
