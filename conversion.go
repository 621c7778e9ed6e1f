/*
 * conversion.go, part of gonb.
 *
 * Copyright 2026 The gonb Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package nb

//This provides useful conversion factors and other constants.
//Internal units are Angstrom, elementary charges and kcal/mol.

//Conversions
const (
	KJ2Kcal = 1 / 4.184
	Kcal2KJ = 4.184
	Nm2A    = 10.0 //Gromacs topologies give sigma in nm
	A2Nm    = 0.1
)

//Others
const (
	//OneOver4PiEps0 is the Coulomb constant in kcal A / (mol e^2)
	OneOver4PiEps0 = 332.0637133
)
